// Package store persists split metadata, share envelopes, and keeper
// accounts in a badger key-value database. It never computes on shares:
// envelopes pass through as opaque text, optionally encrypted at rest.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/shardkey/shardkey/internal/shardcrypto"
	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

// Key prefixes identify each record family in the datastore.
const (
	secretKeyPrefix   = "sec:"
	labelIndexPrefix  = "lbl:"
	shareKeyPrefix    = "shr:"
	userKeyPrefix     = "usr:"
	emailIndexPrefix  = "eml:"
	roleKeyPrefix     = "rol:"
	secretSequenceKey = "seq:secret"
	shareSequenceKey  = "seq:share"
	userSequenceKey   = "seq:user"
	sequenceBandwidth = 16
	secretNonceLength = 16
)

// Options configures a store.
type Options struct {
	// Path is the badger directory.
	Path string

	// Passphrase enables at-rest encryption of share envelopes when
	// non-empty.
	Passphrase string

	// AuthPerMinute and AuthBurst throttle Authenticate per email.
	AuthPerMinute int
	AuthBurst     int
}

// Store is a badger-backed metadata store.
type Store struct {
	db         *badger.DB
	secretSeq  *badger.Sequence
	shareSeq   *badger.Sequence
	userSeq    *badger.Sequence
	passphrase string
	limits     *authLimiter
}

// Open opens (creating if needed) the store at opts.Path.
func Open(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, shkerr.Wrap(err, "opening store at %s", opts.Path)
	}

	s := &Store{
		db:         db,
		passphrase: opts.Passphrase,
		limits:     newAuthLimiter(opts.AuthPerMinute, opts.AuthBurst),
	}

	for _, seq := range []struct {
		key  string
		dest **badger.Sequence
	}{
		{secretSequenceKey, &s.secretSeq},
		{shareSequenceKey, &s.shareSeq},
		{userSequenceKey, &s.userSeq},
	} {
		sq, err := db.GetSequence([]byte(seq.key), sequenceBandwidth)
		if err != nil {
			_ = db.Close()
			return nil, shkerr.Wrap(err, "allocating sequence %s", seq.key)
		}
		*seq.dest = sq
	}

	return s, nil
}

// Close releases sequences and closes the database.
func (s *Store) Close() error {
	for _, seq := range []*badger.Sequence{s.secretSeq, s.shareSeq, s.userSeq} {
		if seq != nil {
			_ = seq.Release()
		}
	}
	return s.db.Close()
}

// CreateSecret records metadata for a new split. Labels are unique.
func (s *Store) CreateSecret(creatorID uint64, label string, n, k int) (*Secret, error) {
	if label == "" {
		return nil, shkerr.WithSuggestion(shkerr.ErrInvalidInput, "label cannot be empty")
	}

	nonce, err := shardcrypto.RandomBytes(secretNonceLength)
	if err != nil {
		return nil, shkerr.Wrap(err, "generating nonce")
	}

	id, err := s.secretSeq.Next()
	if err != nil {
		return nil, shkerr.Wrap(err, "allocating secret id")
	}
	// Sequences start at 0; ids are 1-based.
	id++

	now := time.Now().UTC()
	secret := &Secret{
		ID:        id,
		CreatorID: creatorID,
		Label:     label,
		N:         n,
		K:         k,
		Nonce:     nonce,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		labelKey := []byte(labelIndexPrefix + label)
		if _, err := txn.Get(labelKey); err == nil {
			return shkerr.WithDetails(shkerr.ErrLabelExists, map[string]string{"label": label})
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(secret)
		if err != nil {
			return err
		}
		if err := txn.Set(secretKey(id), data); err != nil {
			return err
		}
		return txn.Set(labelKey, uint64Bytes(id))
	})
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// GetSecret loads a secret by id.
func (s *Store) GetSecret(id uint64) (*Secret, error) {
	var secret Secret
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, secretKey(id), &secret)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, shkerr.ErrSecretNotFound
	}
	if err != nil {
		return nil, err
	}
	return &secret, nil
}

// GetSecretByLabel loads a secret by its unique label.
func (s *Store) GetSecretByLabel(label string) (*Secret, error) {
	var id uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(labelIndexPrefix + label))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, shkerr.WithDetails(shkerr.ErrSecretNotFound, map[string]string{"label": label})
	}
	if err != nil {
		return nil, err
	}
	return s.GetSecret(id)
}

// ListSecrets returns all recorded splits ordered by id.
func (s *Store) ListSecrets() ([]Secret, error) {
	var secrets []Secret
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, secretKeyPrefix, func(val []byte) error {
			var secret Secret
			if err := json.Unmarshal(val, &secret); err != nil {
				return err
			}
			secrets = append(secrets, secret)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return secrets, nil
}

// DeleteSecret removes a secret and cascades to its shares.
func (s *Store) DeleteSecret(id uint64) error {
	secret, err := s.GetSecret(id)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Cascade: collect the share keys under this secret, then delete.
		var shareKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = sharePrefix(id)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			shareKeys = append(shareKeys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range shareKeys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		if err := txn.Delete([]byte(labelIndexPrefix + secret.Label)); err != nil {
			return err
		}
		return txn.Delete(secretKey(id))
	})
}

// AddShare binds an encoded share envelope to a secret and keeper.
func (s *Store) AddShare(secretID, keeperID uint64, shareData string) (*ShareRecord, error) {
	secret, err := s.GetSecret(secretID)
	if err != nil {
		return nil, err
	}

	id, err := s.shareSeq.Next()
	if err != nil {
		return nil, shkerr.Wrap(err, "allocating share id")
	}
	id++

	stored := shareData
	if s.passphrase != "" {
		enc, err := shardcrypto.Encrypt([]byte(shareData), s.passphrase)
		if err != nil {
			return nil, shkerr.Wrap(err, "encrypting share data")
		}
		stored = string(enc)
	}

	now := time.Now().UTC()
	record := &ShareRecord{
		ID:          id,
		KeeperID:    keeperID,
		SecretID:    secretID,
		ShareData:   stored,
		SecretNonce: secret.Nonce,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return txn.Set(shareKey(secretID, id), data)
	})
	if err != nil {
		return nil, err
	}

	record.ShareData = shareData
	return record, nil
}

// ListShares returns the share records for a secret, envelopes decrypted.
func (s *Store) ListShares(secretID uint64) ([]ShareRecord, error) {
	var records []ShareRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, string(sharePrefix(secretID)), func(val []byte) error {
			var record ShareRecord
			if err := json.Unmarshal(val, &record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if s.passphrase != "" {
		for i := range records {
			plain, err := shardcrypto.Decrypt([]byte(records[i].ShareData), s.passphrase)
			if err != nil {
				return nil, shkerr.Wrap(shkerr.ErrDecryptionFailed, "share %d", records[i].ID)
			}
			records[i].ShareData = string(plain)
		}
	}
	return records, nil
}

// secretKey builds the datastore key for a secret id.
func secretKey(id uint64) []byte {
	return append([]byte(secretKeyPrefix), uint64Bytes(id)...)
}

// sharePrefix scopes share keys under their parent secret so cascade
// deletion is a prefix scan.
func sharePrefix(secretID uint64) []byte {
	return append([]byte(shareKeyPrefix), uint64Bytes(secretID)...)
}

func shareKey(secretID, shareID uint64) []byte {
	return append(sharePrefix(secretID), uint64Bytes(shareID)...)
}

func uint64Bytes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func getJSON(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			return fn(val)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
