package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	"github.com/allisson/inkleaf/internal/crypto/repository"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	cryptoUseCase "github.com/allisson/inkleaf/internal/crypto/usecase"
	"github.com/allisson/inkleaf/internal/csfle"
	"github.com/allisson/inkleaf/internal/testutil"
)

func newDataKeyUseCase(t *testing.T) cryptoUseCase.DataKeyUseCase {
	t.Helper()
	store := testutil.SetupMemoryStore(t)
	coll := store.Database(testutil.TestDatabase).Collection(testutil.TestKeyVaultCollection)
	keyManager := cryptoService.NewKeyManager(cryptoService.NewAEADManager())
	return cryptoUseCase.NewDataKeyUseCase(repository.NewKeyVaultRepository(coll), keyManager)
}

func printedDataKeyID(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if value, ok := strings.CutPrefix(line, "CSFLE_DATA_KEY_ID="); ok {
			return value
		}
	}
	t.Fatalf("no CSFLE_DATA_KEY_ID line in %q", out)
	return ""
}

func TestRunEnsureKeyVaultIndex(t *testing.T) {
	ctx := context.Background()
	uc := newDataKeyUseCase(t)
	ns := cryptoDomain.Namespace{Database: testutil.TestDatabase, Collection: testutil.TestKeyVaultCollection}

	t.Run("Success_Repeatable", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunEnsureKeyVaultIndex(ctx, uc, ns, testutil.Logger(), &out))
		require.NoError(t, RunEnsureKeyVaultIndex(ctx, uc, ns, testutil.Logger(), &out))
		assert.Contains(t, out.String(), "Key vault index ready on "+ns.String())
	})
}

func TestRunCreateDataKey(t *testing.T) {
	ctx := context.Background()
	logger := testutil.Logger()

	t.Run("Success_CreatesKey", func(t *testing.T) {
		uc := newDataKeyUseCase(t)
		require.NoError(t, uc.EnsureKeyVaultIndex(ctx))
		provider := testutil.CreateTestMasterKey(t)

		var out bytes.Buffer
		err := RunCreateDataKey(ctx, uc, provider, logger, &out, "vaultNotesKey", "aes-gcm")
		require.NoError(t, err)

		id, err := csfle.ParseDataKeyID(printedDataKeyID(t, out.String()))
		require.NoError(t, err)

		stored, err := uc.GetDataKeyByAltName(ctx, "vaultNotesKey")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, id)
	})

	t.Run("Success_ExistingAltNamePrintsSameID", func(t *testing.T) {
		uc := newDataKeyUseCase(t)
		require.NoError(t, uc.EnsureKeyVaultIndex(ctx))
		provider := testutil.CreateTestMasterKey(t)

		var first bytes.Buffer
		require.NoError(t, RunCreateDataKey(ctx, uc, provider, logger, &first, "vaultNotesKey", "chacha20-poly1305"))

		var second bytes.Buffer
		require.NoError(t, RunCreateDataKey(ctx, uc, provider, logger, &second, "vaultNotesKey", "aes-gcm"))

		assert.Contains(t, second.String(), "already exists")
		assert.Equal(t, printedDataKeyID(t, first.String()), printedDataKeyID(t, second.String()))
	})

	t.Run("Error_InvalidAlgorithm", func(t *testing.T) {
		uc := newDataKeyUseCase(t)
		provider := testutil.CreateTestMasterKey(t)

		var out bytes.Buffer
		err := RunCreateDataKey(ctx, uc, provider, logger, &out, "vaultNotesKey", "rot13")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid algorithm")
	})

	t.Run("Error_MissingMasterKey", func(t *testing.T) {
		uc := newDataKeyUseCase(t)
		path := filepath.Join(t.TempDir(), "missing.key")
		provider := cryptoService.NewFileKeyProvider(path, "", cryptoService.NewKMSService())

		var out bytes.Buffer
		err := RunCreateDataKey(ctx, uc, provider, logger, &out, "vaultNotesKey", "aes-gcm")
		require.Error(t, err)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
	})
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := parseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.AESGCM, alg)

	alg, err = parseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, cryptoDomain.ChaCha20, alg)

	_, err = parseAlgorithm("")
	assert.Error(t, err)

	_, err = parseAlgorithm("des")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid options: aes-gcm, chacha20-poly1305")
}
