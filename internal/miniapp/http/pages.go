package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

// LoginCountdown is the number of seconds the login-required view waits
// before it follows the login entry point.
const LoginCountdown = 4

// PagesHandler renders the server-side pages.
type PagesHandler struct {
	Verification *service.VerificationService
	Sessions     *session.Store
	Catalog      *service.CatalogService
	Payments     *service.PaymentService
	Views        *Views

	// LoginURL is the external login entry point. Empty disables redirects.
	LoginURL string
}

type catalogSection struct {
	Title    string
	Type     string
	Packages []mbsdk.Package
	Error    string
}

type homeData struct {
	Sections []catalogSection
}

type paymentData struct {
	PackageID   string
	Description string
}

type resultData struct {
	Result *domain.PaymentResult
	Last   *domain.TransactionRecord
}

var sectionTitles = map[string]string{
	"standard": "Gói tiêu chuẩn",
	"premium":  "Gói cao cấp",
}

// page fills the fields shared by every page from the tab's session.
func (h *PagesHandler) page(ctx context.Context, title string) Page {
	p := Page{Title: title, TokenKey: h.Verification.TokenKey}

	sess, ok, err := h.Sessions.Get(ctx, httpx.TabFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to load session", "error", err)
		return p
	}
	p.Verified = ok
	p.Fullname = sess.Fullname
	return p
}

// HandleHome handles GET /
func (h *PagesHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.page(ctx, "Trang chủ")
	if !p.Verified {
		p.Message = domain.MsgCannotPay
	}

	data := homeData{}
	for _, t := range service.PackageTypes {
		sec := catalogSection{Title: sectionTitles[t], Type: t}
		if sec.Title == "" {
			sec.Title = t
		}

		pkgs, err := h.Catalog.Packages(ctx, t)
		if err != nil {
			slogx.FromContext(ctx).Warn("failed to load packages", "type", t, "error", err)
			sec.Error = domain.MsgConnectivity
		}
		sec.Packages = pkgs
		data.Sections = append(data.Sections, sec)
	}
	p.Data = data

	h.Views.Render(w, r, http.StatusOK, pageHome, p)
}

// HandleRequireLogin handles GET /require-login
func (h *PagesHandler) HandleRequireLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	next := safeNext(q.Get("next"))

	if h.Sessions.IsVerified(ctx, httpx.TabFromContext(ctx)) {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	p := h.page(ctx, "Yêu cầu đăng nhập")
	p.Message = domain.ParseFailureReason(q.Get("reason")).Message()
	p.Listen = true
	p.Next = next
	p.LoginURL = resolveLoginURL(r, h.LoginURL)
	if p.LoginURL != "" {
		p.Countdown = LoginCountdown
	}

	h.Views.Render(w, r, http.StatusOK, pageRequireLogin, p)
}

// HandleInstruction handles GET /instruction
func (h *PagesHandler) HandleInstruction(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, pageInstruction, h.page(r.Context(), "Hướng dẫn"))
}

// HandlePayment handles GET /payment
func (h *PagesHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	packageID := strings.TrimSpace(r.URL.Query().Get("packageId"))

	if err := domain.ValidatePackageID(packageID); err != nil {
		p := h.page(ctx, "Thanh toán")
		p.Message = "Gói dịch vụ không hợp lệ."
		h.Views.Render(w, r, http.StatusBadRequest, pageError, p)
		return
	}

	p := h.page(ctx, "Thanh toán")
	p.Data = paymentData{
		PackageID:   packageID,
		Description: domain.PaymentDescription(packageID),
	}
	h.Views.Render(w, r, http.StatusOK, pagePayment, p)
}

// HandleResult handles GET /mbapp/result
func (h *PagesHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.page(ctx, "Kết quả thanh toán")

	data := resultData{}
	if q := r.URL.Query(); len(q) > 0 {
		res := domain.ParseResult(q)
		data.Result = &res
	}

	rec, err := h.Payments.LastResult(ctx, httpx.TabFromContext(ctx))
	switch {
	case err == nil:
		data.Last = &rec
	case apiError(err).StatusCode >= http.StatusInternalServerError:
		slogx.FromContext(ctx).Warn("failed to load last transaction", "error", err)
	}
	p.Data = data

	h.Views.Render(w, r, http.StatusOK, pageResult, p)
}

// HandleNotFound renders the error page for unknown paths.
func (h *PagesHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	p := h.page(r.Context(), "Không tìm thấy")
	p.Message = "Trang bạn yêu cầu không tồn tại."
	h.Views.Render(w, r, http.StatusNotFound, pageError, p)
}
