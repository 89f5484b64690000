package access

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

const userUID = "0b7aa0a0-13c8-47b2-9a2f-6f3f87c4d101"

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}
func (m *RepoMock) GetActiveSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) MarkSubscriptionExpired(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) IncrementViewCount(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) AppendAccessLog(ctx context.Context, entry models.AccessLogEntry) (*models.AccessLogEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccessLogEntry), args.Error(1)
}
func (m *RepoMock) ListAccessLogsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.AccessLogEntry, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AccessLogEntry), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func activeContent(id int64, premium bool) *models.Content {
	return &models.Content{
		ID:          id,
		Title:       "Dune",
		Status:      models.ContentActive,
		IsAvailable: true,
		IsPremium:   premium,
	}
}

func TestAccessService_GrantsFreeContent(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetContent", mock.Anything, int64(1)).Return(activeContent(1, false), nil).Once()
	repo.On("AppendAccessLog", mock.Anything, mock.MatchedBy(func(e models.AccessLogEntry) bool {
		return e.AccessStatus == models.AccessGranted &&
			e.ContentID != nil && *e.ContentID == 1 &&
			e.ContentTitleSnapshot == "Dune" &&
			e.UserUID == userUID
	})).Return(&models.AccessLogEntry{ID: 100}, nil).Once()
	repo.On("IncrementViewCount", mock.Anything, int64(1)).Return(nil).Once()

	svc := New(repo, newNoopLogger())
	decision, err := svc.Check(context.Background(), 1, userUID, "10.0.0.1", "test-agent")

	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Reason)
	repo.AssertExpectations(t)
}

func TestAccessService_DeniesMissingContent(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetContent", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound).Once()
	repo.On("AppendAccessLog", mock.Anything, mock.MatchedBy(func(e models.AccessLogEntry) bool {
		return e.AccessStatus == models.AccessDenied && e.ContentID == nil
	})).Return(&models.AccessLogEntry{ID: 101}, nil).Once()

	svc := New(repo, newNoopLogger())
	decision, err := svc.Check(context.Background(), 404, userUID, "", "")

	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonContentNotFound, decision.Reason)
	repo.AssertExpectations(t)
}

func TestAccessService_DeniesUnavailableContent(t *testing.T) {
	tests := []struct {
		name    string
		content *models.Content
	}{
		{
			name:    "draft status",
			content: &models.Content{ID: 2, Title: "Draft", Status: models.ContentDraft, IsAvailable: true},
		},
		{
			name:    "archived status",
			content: &models.Content{ID: 2, Title: "Old", Status: models.ContentArchived, IsAvailable: true},
		},
		{
			name:    "availability flag off",
			content: &models.Content{ID: 2, Title: "Hidden", Status: models.ContentActive, IsAvailable: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("GetContent", mock.Anything, int64(2)).Return(tt.content, nil).Once()
			repo.On("AppendAccessLog", mock.Anything, mock.MatchedBy(func(e models.AccessLogEntry) bool {
				return e.AccessStatus == models.AccessDenied && e.ContentID != nil
			})).Return(&models.AccessLogEntry{ID: 102}, nil).Once()

			svc := New(repo, newNoopLogger())
			decision, err := svc.Check(context.Background(), 2, userUID, "", "")

			assert.NoError(t, err)
			assert.False(t, decision.Allowed)
			assert.Equal(t, ReasonContentUnavailable, decision.Reason)
			repo.AssertExpectations(t)
		})
	}
}

func TestAccessService_PremiumRequiresActiveSubscription(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetContent", mock.Anything, int64(3)).Return(activeContent(3, true), nil).Once()
	repo.On("GetActiveSubscriptionByUser", mock.Anything, userUID).
		Return(nil, repository.ErrNotFound).Once()
	repo.On("AppendAccessLog", mock.Anything, mock.MatchedBy(func(e models.AccessLogEntry) bool {
		return e.AccessStatus == models.AccessDenied
	})).Return(&models.AccessLogEntry{ID: 103}, nil).Once()

	svc := New(repo, newNoopLogger())
	decision, err := svc.Check(context.Background(), 3, userUID, "", "")

	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonPremiumRequired, decision.Reason)
	repo.AssertExpectations(t)
}

func TestAccessService_PremiumGrantedWithActiveSubscription(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetContent", mock.Anything, int64(3)).Return(activeContent(3, true), nil).Once()
	repo.On("GetActiveSubscriptionByUser", mock.Anything, userUID).
		Return(&models.Subscription{
			ID:      7,
			Status:  models.SubscriptionActive,
			EndDate: time.Now().UTC().Add(24 * time.Hour),
		}, nil).Once()
	repo.On("AppendAccessLog", mock.Anything, mock.MatchedBy(func(e models.AccessLogEntry) bool {
		return e.AccessStatus == models.AccessGranted
	})).Return(&models.AccessLogEntry{ID: 104}, nil).Once()
	repo.On("IncrementViewCount", mock.Anything, int64(3)).Return(nil).Once()

	svc := New(repo, newNoopLogger())
	decision, err := svc.Check(context.Background(), 3, userUID, "", "")

	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
	repo.AssertExpectations(t)
}

func TestAccessService_OverdueSubscriptionExpiresLazily(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetContent", mock.Anything, int64(3)).Return(activeContent(3, true), nil).Once()
	repo.On("GetActiveSubscriptionByUser", mock.Anything, userUID).
		Return(&models.Subscription{
			ID:      7,
			Status:  models.SubscriptionActive,
			EndDate: time.Now().UTC().Add(-time.Hour),
		}, nil).Once()
	repo.On("MarkSubscriptionExpired", mock.Anything, int64(7)).Return(nil).Once()
	repo.On("AppendAccessLog", mock.Anything, mock.MatchedBy(func(e models.AccessLogEntry) bool {
		return e.AccessStatus == models.AccessDenied
	})).Return(&models.AccessLogEntry{ID: 105}, nil).Once()

	svc := New(repo, newNoopLogger())
	decision, err := svc.Check(context.Background(), 3, userUID, "", "")

	assert.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonPremiumRequired, decision.Reason)
	repo.AssertExpectations(t)
}

func TestAccessService_ViewCountErrorDoesNotFailGrant(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetContent", mock.Anything, int64(1)).Return(activeContent(1, false), nil).Once()
	repo.On("AppendAccessLog", mock.Anything, mock.Anything).
		Return(&models.AccessLogEntry{ID: 106}, nil).Once()
	repo.On("IncrementViewCount", mock.Anything, int64(1)).
		Return(errors.New("deadlock")).Once()

	svc := New(repo, newNoopLogger())
	decision, err := svc.Check(context.Background(), 1, userUID, "", "")

	assert.NoError(t, err)
	assert.True(t, decision.Allowed)
	repo.AssertExpectations(t)
}

func TestAccessService_LogFailureFailsCheck(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetContent", mock.Anything, int64(1)).Return(activeContent(1, false), nil).Once()
	repo.On("AppendAccessLog", mock.Anything, mock.Anything).
		Return(nil, errors.New("disk full")).Once()

	svc := New(repo, newNoopLogger())
	_, err := svc.Check(context.Background(), 1, userUID, "", "")

	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestAccessService_HistoryNormalizesPaging(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListAccessLogsByUser", mock.Anything, userUID, 20, 0).
		Return([]*models.AccessLogEntry{{ID: 1}}, nil).Once()

	svc := New(repo, newNoopLogger())
	got, err := svc.History(context.Background(), userUID, -1, -5)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}
