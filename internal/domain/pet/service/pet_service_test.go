package service

import (
	"context"
	"pawsay/internal/domain/pet/model"
	"pawsay/internal/domain/pet/repository"
	sessionModel "pawsay/internal/domain/session/model"
	"pawsay/pkg/kvstore"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSelectionStore is a mock of SelectionStore
type MockSelectionStore struct {
	mock.Mock
}

func (m *MockSelectionStore) SetSelectedProfile(ctx context.Context, sessionID, profileID string) (*sessionModel.Session, error) {
	args := m.Called(sessionID, profileID)
	return &sessionModel.Session{ID: sessionID, SelectedProfileID: profileID}, args.Error(0)
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	sel := new(MockSelectionStore)
	svc := NewPetService(repository.NewProfileRepository(kvstore.NewMemoryStore()), sel, nil)
	guest := &sessionModel.Session{ID: "s1", Guest: true}

	t.Run("Defaults to cat and selects the new profile", func(t *testing.T) {
		sel.On("SetSelectedProfile", "s1", mock.AnythingOfType("string")).Return(nil).Once()

		p, err := svc.Create(ctx, guest, ProfileInput{Name: " Mochi "})
		require.NoError(t, err)
		assert.Equal(t, model.SpeciesCat, p.Species)
		assert.Equal(t, "Mochi", p.Name)
		assert.Equal(t, sessionModel.GuestOwnerID, p.OwnerID)
		sel.AssertExpectations(t)
	})

	t.Run("Name required", func(t *testing.T) {
		_, err := svc.Create(ctx, guest, ProfileInput{Name: "  "})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("Unknown species rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, guest, ProfileInput{Name: "Tweety", Species: "bird"})
		assert.ErrorIs(t, err, ErrInvalidSpecies)
	})

	t.Run("Unsafe image rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, guest, ProfileInput{Name: "Rex", Species: "dog", ImageURL: "javascript:alert(1)"})
		assert.ErrorIs(t, err, ErrUnsafeImage)
	})
}

func TestProfilesAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	sel := new(MockSelectionStore)
	sel.On("SetSelectedProfile", mock.Anything, mock.Anything).Return(nil)
	svc := NewPetService(repository.NewProfileRepository(kvstore.NewMemoryStore()), sel, nil)

	alice := &sessionModel.Session{ID: "s-alice", AccountID: "alice", Account: &sessionModel.AccountSnapshot{}}
	guest := &sessionModel.Session{ID: "s-guest", Guest: true}

	p, err := svc.Create(ctx, alice, ProfileInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, guest, ProfileInput{Name: "Mochi"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Rex", mine[0].Name)

	_, err = svc.Get(ctx, guest, p.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = svc.Update(ctx, guest, p.ID, ProfileInput{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = svc.Delete(ctx, guest, p.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = svc.Select(ctx, guest, p.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	updated, err := svc.Update(ctx, alice, p.ID, ProfileInput{Name: "Rex", Species: "dog", Breed: "Corgi"})
	require.NoError(t, err)
	assert.Equal(t, "Corgi", updated.Breed)
}

func TestDeleteSelectedProfileSelectsFirstRemaining(t *testing.T) {
	ctx := context.Background()
	sel := new(MockSelectionStore)
	sel.On("SetSelectedProfile", "s1", mock.Anything).Return(nil)
	svc := NewPetService(repository.NewProfileRepository(kvstore.NewMemoryStore()), sel, nil)
	sess := &sessionModel.Session{ID: "s1", Guest: true}

	first, err := svc.Create(ctx, sess, ProfileInput{Name: "A"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, sess, ProfileInput{Name: "B"})
	require.NoError(t, err)

	sess.SelectedProfileID = second.ID
	updated, err := svc.Delete(ctx, sess, second.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.SelectedProfileID)

	sess.SelectedProfileID = first.ID
	updated, err = svc.Delete(ctx, sess, first.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.SelectedProfileID)
	sel.AssertCalled(t, "SetSelectedProfile", "s1", "")
}

func TestDeleteUnselectedProfileKeepsSelection(t *testing.T) {
	ctx := context.Background()
	sel := new(MockSelectionStore)
	sel.On("SetSelectedProfile", "s1", mock.Anything).Return(nil)
	svc := NewPetService(repository.NewProfileRepository(kvstore.NewMemoryStore()), sel, nil)
	sess := &sessionModel.Session{ID: "s1", Guest: true}

	a, err := svc.Create(ctx, sess, ProfileInput{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, sess, ProfileInput{Name: "B"})
	require.NoError(t, err)
	sess.SelectedProfileID = a.ID

	got, err := svc.Delete(ctx, sess, b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.SelectedProfileID)

	selected, err := svc.Selected(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, "A", selected.Name)
}
