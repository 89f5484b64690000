package content

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

func (m *RepoMock) CreateContent(ctx context.Context, c models.Content) (*models.Content, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}
func (m *RepoMock) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}
func (m *RepoMock) UpdateContent(ctx context.Context, id int64, req models.UpdateContent) (*models.Content, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}
func (m *RepoMock) DeleteContent(ctx context.Context, id int64, deletedBy string) error {
	return m.Called(ctx, id, deletedBy).Error(0)
}
func (m *RepoMock) ContentStats(ctx context.Context) (*models.ContentStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContentStats), args.Error(1)
}
func (m *RepoMock) IncrementLikesCount(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) ListAuditLogs(ctx context.Context, tableName string, rowID int64) ([]*models.AuditLogEntry, error) {
	args := m.Called(ctx, tableName, rowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLogEntry), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestContentService_Create(t *testing.T) {
	req := models.DummyContent{
		Title:       "Interstellar",
		ContentType: "MOVIE",
		Genre:       "sci-fi",
		ReleaseDate: "2014-11-07",
		CreatedBy:   "editor",
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		req        models.DummyContent
		wantErr    error
	}{
		{
			name: "success with default status",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateContent", mock.Anything, mock.MatchedBy(func(e models.Content) bool {
					return e.Title == "Interstellar" &&
						e.ContentType == models.TypeMovie &&
						e.Status == models.ContentDraft &&
						e.IsAvailable && !e.IsPremium &&
						e.ReleaseDate != nil &&
						e.ReleaseDate.Format("2006-01-02") == "2014-11-07"
				})).Return(&models.Content{ID: 42, Title: "Interstellar"}, nil).Once()
				c.On("Set", "content:42", mock.Anything, time.Hour).Return(nil).Once()
			},
			req: req,
		},
		{
			name:       "unknown content type",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req:        models.DummyContent{Title: "X", ContentType: "VHS"},
			wantErr:    ErrInvalidContentType,
		},
		{
			name:       "unknown status",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req:        models.DummyContent{Title: "X", ContentType: "MOVIE", Status: "PUBLISHED"},
			wantErr:    ErrInvalidStatus,
		},
		{
			name:       "bad release date",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req:        models.DummyContent{Title: "X", ContentType: "MOVIE", ReleaseDate: "07-11-2014"},
			wantErr:    ErrInvalidReleaseDate,
		},
		{
			name: "cache set error does not fail create",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateContent", mock.Anything, mock.Anything).
					Return(&models.Content{ID: 7}, nil).Once()
				c.On("Set", "content:7", mock.Anything, time.Hour).
					Return(errors.New("redis down")).Once()
			},
			req: req,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestContentService_Read(t *testing.T) {
	stored := &models.Content{ID: 5, Title: "Dune"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    bool
	}{
		{
			name: "cache miss falls back to repository",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "content:5", mock.Anything).Return(false, nil).Once()
				r.On("GetContent", mock.Anything, int64(5)).Return(stored, nil).Once()
				c.On("Set", "content:5", stored, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "cache error is swallowed",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "content:5", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("GetContent", mock.Anything, int64(5)).Return(stored, nil).Once()
				c.On("Set", "content:5", stored, time.Hour).Return(nil).Once()
			},
		},
		{
			name: "repository error propagates",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "content:5", mock.Anything).Return(false, nil).Once()
				r.On("GetContent", mock.Anything, int64(5)).Return(nil, errors.New("not found")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Read(context.Background(), 5)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, stored, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestContentService_Update(t *testing.T) {
	badType := "VHS"
	badStatus := "PUBLISHED"
	newTitle := "Dune: Part Two"

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		req        models.UpdateContent
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("UpdateContent", mock.Anything, int64(5), mock.Anything).
					Return(&models.Content{ID: 5, Title: newTitle}, nil).Once()
				c.On("Set", "content:5", mock.Anything, time.Hour).Return(nil).Once()
			},
			req: models.UpdateContent{Title: &newTitle},
		},
		{
			name:       "unknown content type rejected before repository",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req:        models.UpdateContent{ContentType: &badType},
			wantErr:    ErrInvalidContentType,
		},
		{
			name:       "unknown status rejected before repository",
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			req:        models.UpdateContent{Status: &badStatus},
			wantErr:    ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			_, err := svc.Update(context.Background(), 5, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestContentService_Delete(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	cache.On("Invalidate", "content:9").Return(nil).Once()
	repo.On("DeleteContent", mock.Anything, int64(9), "admin").Return(nil).Once()

	err := svc.Delete(context.Background(), 9, "admin")
	assert.NoError(t, err)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestContentService_AuditTrail(t *testing.T) {
	trail := []*models.AuditLogEntry{
		{ID: 1, TableName: "content", RowID: 9, Action: models.AuditCreate},
		{ID: 2, TableName: "content", RowID: 9, Action: models.AuditStatusChange},
	}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	repo.On("ListAuditLogs", mock.Anything, "content", int64(9)).Return(trail, nil).Once()

	got, err := svc.AuditTrail(context.Background(), 9)
	assert.NoError(t, err)
	assert.Equal(t, trail, got)

	repo.AssertExpectations(t)
}

func TestContentService_Like(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	repo.On("IncrementLikesCount", mock.Anything, int64(3)).Return(nil).Once()
	cache.On("Invalidate", "content:3").Return(nil).Once()

	err := svc.Like(context.Background(), 3)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
