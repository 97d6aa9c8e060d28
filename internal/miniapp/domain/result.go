package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PaymentResult is what the payment hub reports back when it redirects to the
// result page. Every field is optional; gateways disagree on names.
type PaymentResult struct {
	Success       bool
	Code          string
	Status        string
	Message       string
	OrderID       string
	TransactionID string
	MerchantID    string
	Method        string
	Amount        *float64
	Currency      string
	PaidAt        *time.Time
	RawPaidAt     string
	Params        map[string]string
}

// epochSecondsLimit separates epoch seconds from epoch milliseconds.
const epochSecondsLimit = 10_000_000_000

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseResult reads a result redirect's query parameters.
func ParseResult(q url.Values) PaymentResult {
	res := PaymentResult{
		Code:          first(q, "code", "respCode"),
		Status:        first(q, "status", "paymentStatus"),
		Message:       first(q, "message", "msg", "desc"),
		OrderID:       first(q, "orderId", "order_no", "billId"),
		TransactionID: first(q, "transactionId", "txnId", "trans_id"),
		MerchantID:    first(q, "merchantId", "mid"),
		Method:        first(q, "method", "channel"),
		Currency:      first(q, "currency", "cur"),
		Params:        make(map[string]string, len(q)),
	}

	for k := range q {
		res.Params[k] = q.Get(k)
	}

	if n, err := strconv.ParseFloat(first(q, "amount", "total", "price"), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		res.Amount = &n
	}

	res.RawPaidAt = strings.TrimSpace(first(q, "paidAt", "time", "txnTime", "timestamp"))
	res.PaidAt = parsePaidAt(res.RawPaidAt)
	res.Success = deriveSuccess(q)
	return res
}

func deriveSuccess(q url.Values) bool {
	code := strings.ToLower(first(q, "code", "respCode"))
	if code == "00" || code == "0" {
		return true
	}

	switch strings.ToLower(first(q, "status", "paymentStatus")) {
	case "success", "succeeded", "paid", "completed":
		return true
	}

	switch strings.ToLower(q.Get("success")) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func parsePaidAt(s string) *time.Time {
	if s == "" {
		return nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
		var t time.Time
		if n < epochSecondsLimit {
			t = time.Unix(n, 0).UTC()
		} else {
			t = time.UnixMilli(n).UTC()
		}
		return &t
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// first returns the first non-empty value among keys.
func first(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}
