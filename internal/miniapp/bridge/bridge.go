// Package bridge hands a payment over to the host banking app.
//
// The native bridge is only reachable from script running inside the webview,
// so the server never talks to it directly. A Port decides what the page does
// with the payment message: the webview port returns it for the page to post,
// the log port records it and tells the page not to post anything.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

// Port names.
const (
	PortWebview = "webview"
	PortLog     = "log"
)

// ErrEmptyTransaction is returned for messages without a transaction id.
var ErrEmptyTransaction = errors.New("bridge: payment message has no transaction id")

// Delivery tells the page what to do with a hand-off.
type Delivery struct {
	Port    string                `json:"port"`
	Forward bool                  `json:"forward"`
	Message domain.PaymentMessage `json:"message"`
}

// Port receives payment messages for a tab.
type Port interface {
	Name() string
	Post(ctx context.Context, tabID string, msg domain.PaymentMessage) (Delivery, error)
}

// New returns the port registered under name.
func New(name string) (Port, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PortWebview, "":
		return WebviewPort{}, nil
	case PortLog:
		return LogPort{}, nil
	default:
		return nil, fmt.Errorf("bridge: unknown port %q", name)
	}
}

// WebviewPort forwards messages to the native bridge through the page.
type WebviewPort struct{}

func (WebviewPort) Name() string { return PortWebview }

func (p WebviewPort) Post(ctx context.Context, tabID string, msg domain.PaymentMessage) (Delivery, error) {
	if err := validate(msg); err != nil {
		return Delivery{}, err
	}

	slogx.FromContext(ctx).Info("payment handed to webview", "txn_id", msg.Data.ID, "amount", msg.Data.Amount)
	return Delivery{Port: p.Name(), Forward: true, Message: msg}, nil
}

// LogPort only logs messages. It stands in for the native bridge outside the
// banking app.
type LogPort struct{}

func (LogPort) Name() string { return PortLog }

func (p LogPort) Post(ctx context.Context, tabID string, msg domain.PaymentMessage) (Delivery, error) {
	if err := validate(msg); err != nil {
		return Delivery{}, err
	}

	slogx.FromContext(ctx).Info("payment hand-off logged, no native bridge",
		"type", msg.Type,
		"txn_id", msg.Data.ID,
		"merchant", msg.Data.Merchant.Code,
		"amount", msg.Data.Amount,
		"description", msg.Data.Description,
	)
	return Delivery{Port: p.Name(), Forward: false, Message: msg}, nil
}

func validate(msg domain.PaymentMessage) error {
	if msg.Data.ID == "" {
		return ErrEmptyTransaction
	}
	return nil
}
