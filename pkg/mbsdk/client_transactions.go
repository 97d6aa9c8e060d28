package mbsdk

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// CreateTransaction starts a payment for a package. It is not retried, since
// the backend creates a new transaction on every call.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	form := url.Values{
		"sessionId":   {req.SessionID},
		"cif":         {req.CIF},
		"packageId":   {req.PackageID},
		"description": {req.Description},
		"email":       {req.Email},
		"phone":       {req.Phone},
	}

	body, err := c.postForm(ctx, PathTransactions, form.Encode())
	if err != nil {
		return nil, err
	}
	return parseTransaction(body)
}

// GetTransaction reads a transaction back by id.
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("mbsdk: empty transaction id")
	}

	body, err := c.getWithRetry(ctx, PathTransactions+"/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return parseTransaction(body)
}

func parseTransaction(body []byte) (*Transaction, error) {
	doc := decodeDocument(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrUnexpectedResponse)
	}
	if apiErr := rejection(200, doc); apiErr != nil {
		return nil, apiErr
	}

	d := payload(doc)
	txn := &Transaction{
		TransactionID: firstString(d, "transactionId", "id", "_id"),
		Amount:        roundAmount(d.Get("amount")),
		Merchant: Merchant{
			Code: firstString(d, "merchant.code"),
			Name: firstString(d, "merchant.name"),
		},
		Type: TransactionType{
			Code:      firstString(d, "type.code"),
			Name:      firstString(d, "type.name"),
			AllowCard: truthy(d.Get("type.allowCard")),
		},
		Description:    firstString(d, "description"),
		SuccessMessage: firstString(d, "successMessage"),
		Status:         firstString(d, "status"),
		PackageName:    firstString(d, "packageInfo.name", "packageName"),
		CreatedAt:      firstString(d, "createdAt"),
	}

	if txn.TransactionID == "" {
		return nil, fmt.Errorf("%w: no transaction id in response", ErrUnexpectedResponse)
	}
	return txn, nil
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		s := strings.ToLower(strings.TrimSpace(v.Str))
		return s == "true" || s == "1" || s == "yes"
	default:
		return v.Bool()
	}
}
