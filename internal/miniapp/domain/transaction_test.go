package domain_test

import (
	"strings"
	"testing"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/domain"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentMessage(t *testing.T) {
	t.Parallel()

	t.Run("defaults missing codes", func(t *testing.T) {
		msg := domain.NewPaymentMessage(domain.TransactionRecord{
			TransactionID: "TX1",
			Amount:        199000,
			Description:   "Thanh toán gói dịch vụ",
		})

		require.Equal(t, domain.PaymentMessageType, msg.Type)
		require.Equal(t, "UNKNOWN", msg.Data.Merchant.Code)
		require.Equal(t, "UNKNOWN", msg.Data.Merchant.Name)
		require.Equal(t, "UNKNOWN", msg.Data.Type.Code)
		require.Equal(t, "UNKNOWN", msg.Data.Type.Name)
		require.False(t, msg.Data.Type.AllowCard)
		require.Equal(t, "TX1", msg.Data.ID)
		require.EqualValues(t, 199000, msg.Data.Amount)
	})

	t.Run("clamps to host limits", func(t *testing.T) {
		msg := domain.NewPaymentMessage(domain.TransactionRecord{
			TransactionID: strings.Repeat("a", 60),
			Amount:        -5,
			Description:   strings.Repeat("ô", 250),
			Merchant:      domain.Merchant{Code: "JBA", Name: "JBA AI"},
			Type:          domain.TransactionType{Code: "PKG", Name: "Package", AllowCard: true},
		})

		require.Len(t, msg.Data.ID, domain.MaxTransactionIDLen)
		require.Zero(t, msg.Data.Amount)
		require.Equal(t, domain.MaxDescriptionLen, len([]rune(msg.Data.Description)))
		require.Equal(t, "JBA", msg.Data.Merchant.Code)
		require.True(t, msg.Data.Type.AllowCard)
	})
}

func TestValidatePackageID(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.ValidatePackageID("65a1f0c2b3d4e5f6a7b8c9d0"))
	require.NoError(t, domain.ValidatePackageID("65A1F0C2B3D4E5F6A7B8C9D0"))
	require.ErrorIs(t, domain.ValidatePackageID(""), domain.ErrInvalidPackageID)
	require.ErrorIs(t, domain.ValidatePackageID("65a1f0c2b3d4e5f6a7b8c9d"), domain.ErrInvalidPackageID)
	require.ErrorIs(t, domain.ValidatePackageID("zza1f0c2b3d4e5f6a7b8c9d0"), domain.ErrInvalidPackageID)
}

func TestPaymentDescription(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Thanh toán gói dịch vụ abc", domain.PaymentDescription("abc"))
	require.Equal(t, "Thanh toán gói dịch vụ", domain.PaymentDescription(""))
	require.Len(t, []rune(domain.PaymentDescription(strings.Repeat("x", 300))), domain.MaxDescriptionLen)
}

func TestFailureReasonMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.MsgSessionExpired, domain.ReasonRejected.Message())
	require.Equal(t, domain.MsgConnectivity, domain.ReasonConnectivity.Message())
	require.Equal(t, domain.MsgMalformed, domain.ReasonMalformed.Message())
	require.Equal(t, domain.MsgLoginRequired, domain.ReasonNone.Message())
	require.Equal(t, domain.ReasonRejected, domain.ParseFailureReason("rejected"))
	require.Equal(t, domain.ReasonNone, domain.ParseFailureReason("other"))
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, domain.Session{SessionID: "S1"}.Validate())
	require.ErrorIs(t, domain.Session{CIF: "C1"}.Validate(), domain.ErrInvalidSession)
	require.ErrorIs(t, domain.Session{SessionID: "  "}.Validate(), domain.ErrInvalidSession)
}
