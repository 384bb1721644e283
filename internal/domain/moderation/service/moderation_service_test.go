package service

import (
	"context"
	"fmt"
	accountRepository "pawsay/internal/domain/account/repository"
	accountService "pawsay/internal/domain/account/service"
	"pawsay/internal/domain/community/model"
	"pawsay/internal/domain/community/repository"
	communityService "pawsay/internal/domain/community/service"
	"pawsay/pkg/kvstore"
	"pawsay/pkg/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAccount(accountID, title, body string) {
	m.Called(accountID, title, body)
}

func (m *MockNotifier) AlertAdmins(title, body string) {
	m.Called(title, body)
}

type fixture struct {
	mod       ModerationService
	community communityService.CommunityService
	accounts  accountService.AccountService
	reports   repository.ReportRepository
	notifier  *MockNotifier
}

func newFixture() *fixture {
	store := kvstore.NewMemoryStore()
	posts := repository.NewPostRepository(store)
	reports := repository.NewReportRepository(store)
	accounts := accountService.NewAccountService(accountRepository.NewAccountRepository(store), accountService.PlainHasher{}, nil, nil)
	notifier := new(MockNotifier)
	notifier.On("AlertAdmins", mock.Anything, mock.Anything).Return()
	return &fixture{
		mod:       NewModerationService(posts, reports, accounts, notifier, nil, nil),
		community: communityService.NewCommunityService(posts, reports, notifier, nil, nil, nil),
		accounts:  accounts,
		reports:   reports,
		notifier:  notifier,
	}
}

func (f *fixture) hiddenPost(t *testing.T) *model.Post {
	t.Helper()
	ctx := context.Background()
	post, err := f.community.CreatePost(ctx, model.Author{AuthorID: "a", AuthorName: "A"}, "spam", "")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := f.community.Report(ctx, post.ID, fmt.Sprintf("u%d", i), "")
		require.NoError(t, err)
	}
	return post
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	post := f.hiddenPost(t)

	views, err := f.mod.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, views, 4)
	for _, v := range views {
		assert.Equal(t, post.ID, v.PostID)
		assert.Equal(t, 4, v.ReportCount)
		assert.True(t, v.AutoHidden)
		require.NotNil(t, v.Post)
	}
}

func TestDismissReportClearsAllReports(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	post := f.hiddenPost(t)

	views, err := f.mod.ListReports(ctx)
	require.NoError(t, err)
	require.NoError(t, f.mod.DismissReport(ctx, views[0].ID))

	feed, err := f.community.Feed(ctx, "viewer", utils.Pagination{})
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, post.ID, feed.Posts[0].ID)
	assert.Equal(t, 0, feed.Posts[0].ReportCount)

	// 其余举报记录保留，但帖子已无举报
	views, err = f.mod.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.False(t, views[0].AutoHidden)

	assert.ErrorIs(t, f.mod.DismissReport(ctx, "missing"), ErrReportNotFound)
}

func TestDeletePostPurgesReports(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	post := f.hiddenPost(t)
	other, err := f.community.CreatePost(ctx, model.Author{AuthorID: "b"}, "ok", "")
	require.NoError(t, err)
	_, err = f.community.Report(ctx, other.ID, "u9", "")
	require.NoError(t, err)

	require.NoError(t, f.mod.DeletePost(ctx, post.ID))

	reports, err := f.reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, other.ID, reports[0].PostID)

	posts, err := f.mod.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].ReportCount)

	assert.ErrorIs(t, f.mod.DeletePost(ctx, post.ID), ErrPostNotFound)
}

func TestDeactivation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	admin, err := f.accounts.Signup(ctx, accountService.SignupInput{Username: "root", Email: "root@example.com", Password: "pw"})
	require.NoError(t, err)
	bob, err := f.accounts.Signup(ctx, accountService.SignupInput{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = f.mod.ToggleDeactivation(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrCannotDeactivateSelf)
	_, err = f.mod.Deactivate(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrCannotDeactivateSelf)

	acc, err := f.mod.ToggleDeactivation(ctx, admin.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, acc.IsDeactivated)

	acc, err = f.mod.ToggleDeactivation(ctx, admin.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, acc.IsDeactivated)

	acc, err = f.mod.Deactivate(ctx, admin.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, acc.IsDeactivated)
	acc, err = f.mod.Reactivate(ctx, admin.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, acc.IsDeactivated)

	_, err = f.mod.ToggleDeactivation(ctx, admin.ID, "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	got, err := f.accounts.Get(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeactivated)
}

func TestWarn(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	bob, err := f.accounts.Signup(ctx, accountService.SignupInput{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	f.notifier.On("NotifyAccount", bob.ID, "Community warning", mock.AnythingOfType("string")).Return()

	acc, err := f.mod.Warn(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, acc.Warnings)
	acc, err = f.mod.Warn(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.Warnings)
	assert.False(t, acc.IsDeactivated)

	f.notifier.AssertNumberOfCalls(t, "NotifyAccount", 2)

	users, err := f.mod.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 2, users[0].Warnings)
}
