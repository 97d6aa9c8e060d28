package cryptox_test

import (
	"crypto/ed25519"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseEd25519Key(t *testing.T) {
	t.Parallel()

	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	require.Len(t, key, ed25519.PrivateKeySize)
}

func TestParseEd25519KeyErrors(t *testing.T) {
	t.Parallel()

	_, err := cryptox.ParseEd25519Key([]byte("not pem"))
	require.Error(t, err)

	_, err = cryptox.ParseEd25519Key(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte("junk")}))
	require.Error(t, err)
}

func TestLoadOrGenerateEd25519Key(t *testing.T) {
	t.Parallel()

	t.Run("generated", func(t *testing.T) {
		a, err := cryptox.LoadOrGenerateEd25519Key("")
		require.NoError(t, err)
		b, err := cryptox.LoadOrGenerateEd25519Key("")
		require.NoError(t, err)
		require.False(t, a.Equal(b))
	})

	t.Run("from file", func(t *testing.T) {
		pemBytes, err := cryptox.GenerateEd25519Key()
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "tab.pem")
		require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

		a, err := cryptox.LoadOrGenerateEd25519Key(path)
		require.NoError(t, err)
		b, err := cryptox.ParseEd25519Key(pemBytes)
		require.NoError(t, err)
		require.True(t, a.Equal(b))
	})
}
