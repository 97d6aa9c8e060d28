package http

import (
	"net/http"
	"strings"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/miniappsdk"
)

// CatalogHandler serves the pricing catalog.
type CatalogHandler struct {
	Catalog *service.CatalogService
}

// HandleList handles GET /v1/packages
//
//	@Summary		List Packages
//	@Description	Lists the service packages of one type with prices formatted in VND.
//	@Tags			Catalog
//	@Produce		json
//	@Param			type	query		string	true	"Package type"	example(standard)
//	@Success		200		{object}	miniappsdk.PackagesResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		502		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/packages [get].
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	packageType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if packageType == "" {
		miniappsdk.ErrInvalidRequest.WithDescription("type is required").WriteError(w)
		return
	}

	pkgs, err := h.Catalog.Packages(r.Context(), packageType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, miniappsdk.PackagesResponse{
		Type:     packageType,
		Packages: toPackageResponses(pkgs),
	})
}

func toPackageResponses(pkgs []mbsdk.Package) []miniappsdk.PackageResponse {
	out := make([]miniappsdk.PackageResponse, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, miniappsdk.PackageResponse{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			PriceText:   FormatVND(p.Price),
			Duration:    p.Duration,
			Description: p.Description,
			Type:        p.Type,
		})
	}
	return out
}
