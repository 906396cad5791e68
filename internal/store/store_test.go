package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

func openTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	opts.Path = t.TempDir()
	s, err := Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestCreateAndGetSecret(t *testing.T) {
	s := openTestStore(t, Options{})

	secret, err := s.CreateSecret(1, "backup", 5, 3)
	require.NoError(t, err)
	assert.NotZero(t, secret.ID)
	assert.Len(t, secret.Nonce, secretNonceLength)
	assert.Equal(t, 5, secret.N)
	assert.Equal(t, 3, secret.K)

	byID, err := s.GetSecret(secret.ID)
	require.NoError(t, err)
	assert.Equal(t, "backup", byID.Label)

	byLabel, err := s.GetSecretByLabel("backup")
	require.NoError(t, err)
	assert.Equal(t, secret.ID, byLabel.ID)
}

func TestLabelUniqueness(t *testing.T) {
	s := openTestStore(t, Options{})

	_, err := s.CreateSecret(1, "dup", 3, 2)
	require.NoError(t, err)

	_, err = s.CreateSecret(1, "dup", 5, 3)
	assert.True(t, shkerr.Is(err, shkerr.ErrLabelExists))
}

func TestSecretNotFound(t *testing.T) {
	s := openTestStore(t, Options{})

	_, err := s.GetSecret(999)
	assert.True(t, shkerr.Is(err, shkerr.ErrSecretNotFound))

	_, err = s.GetSecretByLabel("missing")
	assert.True(t, shkerr.Is(err, shkerr.ErrSecretNotFound))
}

func TestSharesRoundTrip(t *testing.T) {
	s := openTestStore(t, Options{})

	secret, err := s.CreateSecret(1, "shared", 3, 2)
	require.NoError(t, err)

	for i, data := range []string{"shard-v1-2-1-aa", "shard-v1-2-2-bb", "shard-v1-2-3-cc"} {
		record, err := s.AddShare(secret.ID, uint64(i+1), data)
		require.NoError(t, err)
		assert.Equal(t, secret.Nonce, record.SecretNonce)
	}

	records, err := s.ListShares(secret.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "shard-v1-2-1-aa", records[0].ShareData)
}

func TestAddShareUnknownSecret(t *testing.T) {
	s := openTestStore(t, Options{})
	_, err := s.AddShare(42, 1, "data")
	assert.True(t, shkerr.Is(err, shkerr.ErrSecretNotFound))
}

func TestDeleteSecretCascades(t *testing.T) {
	s := openTestStore(t, Options{})

	secret, err := s.CreateSecret(1, "doomed", 3, 2)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.AddShare(secret.ID, uint64(i+1), "payload")
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteSecret(secret.ID))

	_, err = s.GetSecret(secret.ID)
	assert.True(t, shkerr.Is(err, shkerr.ErrSecretNotFound))

	records, err := s.ListShares(secret.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The label is free for reuse after deletion.
	_, err = s.CreateSecret(1, "doomed", 2, 2)
	assert.NoError(t, err)
}

func TestEncryptedShareData(t *testing.T) {
	s := openTestStore(t, Options{Passphrase: "store passphrase"})

	secret, err := s.CreateSecret(1, "locked", 2, 2)
	require.NoError(t, err)

	const envelope = "shard-v1-2-1-deadbeef"
	record, err := s.AddShare(secret.ID, 1, envelope)
	require.NoError(t, err)
	// The caller-facing record keeps the plaintext envelope.
	assert.Equal(t, envelope, record.ShareData)

	records, err := s.ListShares(secret.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, envelope, records[0].ShareData)
}

func TestListSecrets(t *testing.T) {
	s := openTestStore(t, Options{})

	for _, label := range []string{"one", "two", "three"} {
		_, err := s.CreateSecret(1, label, 3, 2)
		require.NoError(t, err)
	}

	secrets, err := s.ListSecrets()
	require.NoError(t, err)
	assert.Len(t, secrets, 3)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Options{Path: dir})
	require.NoError(t, err)
	created, err := s.CreateSecret(1, "durable", 4, 2)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(Options{Path: dir})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	got, err := reopened.GetSecretByLabel("durable")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Nonce, got.Nonce)
}
