package miniappsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// ListPackages returns the catalog for a package type.
func (c *SDKClient) ListPackages(ctx context.Context, packageType string) (*PackagesResponse, error) {
	q := url.Values{"type": {packageType}}
	var out PackagesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/packages?"+q.Encode(), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment starts a payment. The tab must be verified.
func (c *SDKClient) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	var out PaymentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/payments", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Handoff asks for the message to post to the native bridge.
func (c *SDKClient) Handoff(ctx context.Context, transactionID string) (*HandoffResponse, error) {
	var out HandoffResponse
	path := "/v1/payments/" + url.PathEscape(transactionID) + "/handoff"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LastPayment reads the tab's last transaction back.
func (c *SDKClient) LastPayment(ctx context.Context) (*PaymentResponse, error) {
	var out PaymentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/payments/last", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func jsonBody(v any) io.Reader {
	buf, _ := json.Marshal(v)
	return bytes.NewReader(buf)
}
