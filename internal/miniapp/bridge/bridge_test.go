package bridge_test

import (
	"context"
	"testing"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/bridge"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]string{
		"":        bridge.PortWebview,
		"webview": bridge.PortWebview,
		" LOG ":   bridge.PortLog,
		"log":     bridge.PortLog,
	} {
		p, err := bridge.New(name)
		require.NoError(t, err)
		require.Equal(t, want, p.Name())
	}

	_, err := bridge.New("sms")
	require.Error(t, err)
}

func TestPost(t *testing.T) {
	t.Parallel()

	msg := domain.NewPaymentMessage(domain.TransactionRecord{TransactionID: "AW00R800009L", Amount: 99000})

	t.Run("webview forwards", func(t *testing.T) {
		d, err := bridge.WebviewPort{}.Post(context.Background(), "TAB", msg)
		require.NoError(t, err)
		require.True(t, d.Forward)
		require.Equal(t, domain.PaymentMessageType, d.Message.Type)
		require.Equal(t, "UNKNOWN", d.Message.Data.Merchant.Code)
	})

	t.Run("log does not forward", func(t *testing.T) {
		d, err := bridge.LogPort{}.Post(context.Background(), "TAB", msg)
		require.NoError(t, err)
		require.False(t, d.Forward)
		require.Equal(t, bridge.PortLog, d.Port)
	})

	t.Run("empty transaction", func(t *testing.T) {
		_, err := bridge.WebviewPort{}.Post(context.Background(), "TAB", domain.NewPaymentMessage(domain.TransactionRecord{}))
		require.ErrorIs(t, err, bridge.ErrEmptyTransaction)
	})
}
