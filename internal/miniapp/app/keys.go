package app

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/jwtx"
)

// sessionSealInfo separates the session sealing key from other uses of the
// same secret.
const sessionSealInfo = "miniapp/session-id/v1"

// tabAudience is the audience of tab cookies.
var tabAudience = []string{"miniapp-web"}

// InitTabKeys loads or generates the Ed25519 key that signs tab cookies.
//
// Without MINIAPP_TAB_KEY_FILE the key lives in memory only, so every tab
// starts over when the service restarts.
func InitTabKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.EdDSAVerifier, error) {
	key, err := cryptox.LoadOrGenerateEd25519Key(cfg.TabKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load tab key: %w", err)
	}

	pub := key.Public().(ed25519.PublicKey)
	kid := "tab-" + cryptox.ShortFingerprint(hex.EncodeToString(pub))

	signer, err := jwtx.NewSignerEdDSA(kid, key)
	if err != nil {
		return nil, nil, err
	}
	verifier := jwtx.NewVerifierEdDSA(kid, signer.PublicKey(), cfg.Issuer, tabAudience)

	if cfg.TabKeyFile == "" {
		logger.Warn("tab signing key is ephemeral; tabs will not survive a restart", "kid", kid)
	} else {
		logger.Info("tab signing key loaded", "kid", kid)
	}
	return signer, verifier, nil
}

// InitSealer builds the sealer that protects backend session ids at rest.
func InitSealer(cfg Config, logger *slog.Logger) (*cryptox.Sealer, error) {
	secret, ephemeral, err := cryptox.LoadSecret(cfg.SessionSecretFile, cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	if ephemeral {
		logger.Warn("session secret is ephemeral; stored sessions will not survive a restart")
	}
	return cryptox.NewSealer(secret, sessionSealInfo)
}
