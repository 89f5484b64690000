package scheduler

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
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ExpireDueSubscriptions(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *RepoMock) FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.SubscriptionInfo, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionInfo), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, routingKey string, message any) error {
	return m.Called(exchange, routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestScheduler_ExpireSweepPublishesPerSubscription(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)

	repo.On("ExpireDueSubscriptions", mock.Anything, mock.Anything).
		Return([]int64{4, 9}, nil).Once()
	pub.On("Publish", "notifications", "expired", ExpiredMessage{SubscriptionID: 4}).Return(nil).Once()
	pub.On("Publish", "notifications", "expired", ExpiredMessage{SubscriptionID: 9}).Return(nil).Once()

	svc := New(repo, pub, newNoopLogger())
	svc.expireSweep(context.Background())

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestScheduler_ExpireSweepSkipsPublishOnRepoError(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)

	repo.On("ExpireDueSubscriptions", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	svc := New(repo, pub, newNoopLogger())
	svc.expireSweep(context.Background())

	repo.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_PublishErrorDoesNotStopSweep(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)

	repo.On("ExpireDueSubscriptions", mock.Anything, mock.Anything).
		Return([]int64{1, 2}, nil).Once()
	pub.On("Publish", "notifications", "expired", ExpiredMessage{SubscriptionID: 1}).
		Return(errors.New("channel closed")).Once()
	pub.On("Publish", "notifications", "expired", ExpiredMessage{SubscriptionID: 2}).Return(nil).Once()

	svc := New(repo, pub, newNoopLogger())
	svc.expireSweep(context.Background())

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestScheduler_UpcomingNotifications(t *testing.T) {
	info := &models.SubscriptionInfo{
		SubscriptionID: 7,
		Email:          "alice@example.com",
		Username:       "alice",
		PlanName:       "premium",
		EndDate:        time.Now().UTC().Add(12 * time.Hour),
	}

	repo := new(RepoMock)
	pub := new(PublisherMock)

	repo.On("FindSubscriptionsExpiringBetween", mock.Anything,
		mock.Anything, mock.Anything).
		Return([]*models.SubscriptionInfo{info}, nil).Once()
	pub.On("Publish", "notifications", "upcoming", info).Return(nil).Once()

	svc := New(repo, pub, newNoopLogger())
	svc.notifyUpcoming(context.Background())

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)

	calledFrom := repo.Calls[0].Arguments.Get(1).(time.Time)
	calledTo := repo.Calls[0].Arguments.Get(2).(time.Time)
	assert.Equal(t, 24*time.Hour, calledTo.Sub(calledFrom))
}

func TestScheduler_UpcomingNoMatchesPublishesNothing(t *testing.T) {
	repo := new(RepoMock)
	pub := new(PublisherMock)

	repo.On("FindSubscriptionsExpiringBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.SubscriptionInfo{}, nil).Once()

	svc := New(repo, pub, newNoopLogger())
	svc.notifyUpcoming(context.Background())

	repo.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
