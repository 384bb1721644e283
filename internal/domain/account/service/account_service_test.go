package service

import (
	"context"
	"pawsay/internal/domain/account/model"
	"pawsay/internal/domain/account/repository"
	"pawsay/pkg/kvstore"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingObserver 记录收到的账号变更
type recordingObserver struct {
	mu      sync.Mutex
	changes []model.Account
}

func (o *recordingObserver) AccountChanged(_ context.Context, acc model.Account) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes = append(o.changes, acc)
}

func newTestService(t *testing.T) AccountService {
	t.Helper()
	repo := repository.NewAccountRepository(kvstore.NewMemoryStore())
	return NewAccountService(repo, NewBcryptHasher(bcrypt.MinCost), clockwork.NewFakeClock(), nil)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	t.Run("First account becomes admin", func(t *testing.T) {
		acc, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "Alice@Example.com", Password: "pw"})
		require.NoError(t, err)
		assert.True(t, acc.IsAdmin)
		assert.Equal(t, "alice@example.com", acc.Email)
		assert.NotEqual(t, "pw", acc.Password)
	})

	t.Run("Later plain account is not admin", func(t *testing.T) {
		acc, err := svc.Signup(ctx, SignupInput{Username: "bob", Email: "bob@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.False(t, acc.IsAdmin)
	})

	t.Run("Username containing admin becomes admin", func(t *testing.T) {
		acc, err := svc.Signup(ctx, SignupInput{Username: "SuperAdMin", Email: "root@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.True(t, acc.IsAdmin)
	})

	t.Run("Duplicate email rejected", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupInput{Username: "bobby", Email: "BOB@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrEmailTaken)

		all, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Empty username rejected", func(t *testing.T) {
		_, err := svc.Signup(ctx, SignupInput{Username: "  ", Email: "x@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrEmptyUsername)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	acc, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "ALICE@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@example.com", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Deactivated account refused", func(t *testing.T) {
		_, err := svc.SetDeactivated(ctx, acc.ID, true)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, "alice@example.com", "secret")
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})
}

func TestMutationsNotifyObservers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	obs := &recordingObserver{}
	svc.Observe(obs)

	acc, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, acc.ID)
	require.NoError(t, err)
	_, err = svc.Warn(ctx, acc.ID)
	require.NoError(t, err)
	updated, err := svc.UpdateProfile(ctx, acc.ID, "Alice B", "")
	require.NoError(t, err)

	assert.Equal(t, "Alice B", updated.Username)
	assert.True(t, updated.IsSubscribed)
	assert.Equal(t, 1, updated.Warnings)
	// 管理员身份不随改名变化
	assert.True(t, updated.IsAdmin)

	require.Len(t, obs.changes, 3)
	assert.Equal(t, "Alice B", obs.changes[2].Username)

	_, err = svc.Warn(ctx, "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Len(t, obs.changes, 3)
}

func TestRenameNeverGrantsAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	bob, err := svc.Signup(ctx, SignupInput{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	require.False(t, bob.IsAdmin)

	renamed, err := svc.UpdateProfile(ctx, bob.ID, "bob-admin", "")
	require.NoError(t, err)
	assert.Equal(t, "bob-admin", renamed.Username)
	assert.False(t, renamed.IsAdmin)

	stored, err := svc.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAdmin)
}

func TestPlainHasher(t *testing.T) {
	h := NewCredentialHasher("plain")
	stored, err := h.Hash("pw")
	require.NoError(t, err)
	assert.Equal(t, "pw", stored)
	assert.True(t, h.Verify(stored, "pw"))
	assert.False(t, h.Verify(stored, "other"))

	_, ok := NewCredentialHasher("bcrypt").(*BcryptHasher)
	assert.True(t, ok)
}
