package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

func password(s string) []byte {
	// Copy: Store wipes password buffers.
	return []byte(s)
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	s := openTestStore(t, Options{})

	user, err := s.CreateUser("Keeper@Example.COM", password("hunter2hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "keeper@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.Salt)

	authed, err := s.Authenticate("keeper@example.com", password("hunter2hunter2"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = s.Authenticate("keeper@example.com", password("wrong password"))
	assert.True(t, shkerr.Is(err, shkerr.ErrAuthentication))
}

func TestCreateUserValidation(t *testing.T) {
	s := openTestStore(t, Options{})

	_, err := s.CreateUser("not-an-email", password("longenough"))
	assert.Error(t, err)

	_, err = s.CreateUser("a@b.com", password("short"))
	assert.Error(t, err)
}

func TestCreateUserWipesPassword(t *testing.T) {
	s := openTestStore(t, Options{})

	pw := password("wipemewipeme")
	_, err := s.CreateUser("wipe@example.com", pw)
	require.NoError(t, err)
	for _, b := range pw {
		assert.Zero(t, b)
	}
}

func TestEmailUniqueness(t *testing.T) {
	s := openTestStore(t, Options{})

	_, err := s.CreateUser("dup@example.com", password("password-one"))
	require.NoError(t, err)

	_, err = s.CreateUser("dup@example.com", password("password-two"))
	assert.True(t, shkerr.Is(err, shkerr.ErrUserExists))
}

func TestAuthenticateUnknownUser(t *testing.T) {
	s := openTestStore(t, Options{})
	_, err := s.Authenticate("ghost@example.com", password("whatever1"))
	assert.True(t, shkerr.Is(err, shkerr.ErrAuthentication))
}

func TestAuthenticateRateLimited(t *testing.T) {
	// Burst of 2 with a negligible refill rate: the third attempt trips.
	s := openTestStore(t, Options{AuthPerMinute: 1, AuthBurst: 2})

	_, err := s.CreateUser("throttle@example.com", password("rightpassword"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := s.Authenticate("throttle@example.com", password("wrong attempt"))
		assert.True(t, shkerr.Is(err, shkerr.ErrAuthentication), "attempt %d", i)
	}

	_, err = s.Authenticate("throttle@example.com", password("rightpassword"))
	assert.True(t, shkerr.Is(err, shkerr.ErrRateLimited))
}

func TestRoles(t *testing.T) {
	s := openTestStore(t, Options{})

	user, err := s.CreateUser("roles@example.com", password("rolekeeper"))
	require.NoError(t, err)

	roles, err := s.UserRoles(user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	require.NoError(t, s.AssignRole(user.ID, RoleKeeper))
	require.NoError(t, s.AssignRole(user.ID, RoleAdmin))
	require.NoError(t, s.AssignRole(user.ID, RoleKeeper)) // idempotent

	roles, err = s.UserRoles(user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Role{RoleKeeper, RoleAdmin}, roles)

	has, err := s.HasRole(user.ID, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.HasRole(user.ID, RoleReader)
	require.NoError(t, err)
	assert.False(t, has)
}
