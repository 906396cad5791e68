package store

import (
	"crypto/subtle"
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/argon2"
	"golang.org/x/time/rate"

	"github.com/shardkey/shardkey/internal/shardcrypto"
	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

// argon2id parameters for password hashing.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLength   = 16
)

// authLimiter throttles authentication attempts per email address.
type authLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perMin   int
	burst    int
}

func newAuthLimiter(perMinute, burst int) *authLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &authLimiter{
		limiters: make(map[string]*rate.Limiter),
		perMin:   perMinute,
		burst:    burst,
	}
}

// allow reports whether another attempt for email may proceed now.
func (a *authLimiter) allow(email string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	limiter, ok := a.limiters[email]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(a.perMin)/60.0), a.burst)
		a.limiters[email] = limiter
	}
	return limiter.Allow()
}

// CreateUser registers a keeper account. Emails are unique; the password
// is argon2id-hashed with a fresh salt and wiped from memory.
func (s *Store) CreateUser(email string, password []byte) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shkerr.WithSuggestion(shkerr.ErrInvalidInput, "a valid email address is required")
	}
	if len(password) < 8 {
		return nil, shkerr.WithSuggestion(shkerr.ErrInvalidInput, "password must be at least 8 characters")
	}

	salt, err := shardcrypto.RandomBytes(saltLength)
	if err != nil {
		return nil, shkerr.Wrap(err, "generating salt")
	}
	hash := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	shardcrypto.Zeroize(password)

	id, err := s.userSeq.Next()
	if err != nil {
		return nil, shkerr.Wrap(err, "allocating user id")
	}
	id++

	now := time.Now().UTC()
	user := &User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte(emailIndexPrefix + email)
		if _, err := txn.Get(emailKey); err == nil {
			return shkerr.WithDetails(shkerr.ErrUserExists, map[string]string{"email": email})
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(id), data); err != nil {
			return err
		}
		return txn.Set(emailKey, uint64Bytes(id))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail loads a user account.
func (s *Store) GetUserByEmail(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var id uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailIndexPrefix + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, shkerr.WithDetails(shkerr.ErrUserNotFound, map[string]string{"email": email})
	}
	if err != nil {
		return nil, err
	}

	var user User
	err = s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a password for email. Attempts are rate limited
// per address; the password is wiped before returning.
func (s *Store) Authenticate(email string, password []byte) (*User, error) {
	defer shardcrypto.Zeroize(password)

	email = strings.ToLower(strings.TrimSpace(email))
	if !s.limits.allow(email) {
		return nil, shkerr.ErrRateLimited
	}

	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, shkerr.ErrAuthentication
	}

	hash := argon2.IDKey(password, user.Salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	if subtle.ConstantTimeCompare(hash, user.PasswordHash) != 1 {
		return nil, shkerr.ErrAuthentication
	}
	return user, nil
}

// AssignRole grants a role to a user.
func (s *Store) AssignRole(userID uint64, role Role) error {
	roles, err := s.UserRoles(userID)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	roles = append(roles, role)

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(roles)
		if err != nil {
			return err
		}
		return txn.Set(roleKey(userID), data)
	})
}

// UserRoles returns the roles granted to a user.
func (s *Store) UserRoles(userID uint64) ([]Role, error) {
	var roles []Role
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, roleKey(userID), &roles)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// HasRole reports whether a user holds a role.
func (s *Store) HasRole(userID uint64, role Role) (bool, error) {
	roles, err := s.UserRoles(userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

func userKey(id uint64) []byte {
	return append([]byte(userKeyPrefix), uint64Bytes(id)...)
}

func roleKey(userID uint64) []byte {
	return append([]byte(roleKeyPrefix), uint64Bytes(userID)...)
}
