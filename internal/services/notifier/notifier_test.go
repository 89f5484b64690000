package notifier

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	smtpclient "github.com/streamhub/streamhub/internal/lib/smtp"
	"github.com/streamhub/streamhub/internal/models"
)

type fakeClient struct {
	from   string
	rcpts  []string
	data   bytes.Buffer
	closed bool
	quit   bool
}

func (c *fakeClient) Mail(from string) error { c.from = from; return nil }
func (c *fakeClient) Rcpt(to string) error   { c.rcpts = append(c.rcpts, to); return nil }
func (c *fakeClient) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.data}, nil
}
func (c *fakeClient) Quit() error  { c.quit = true; return nil }
func (c *fakeClient) Close() error { c.closed = true; return nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type fakeTransport struct {
	client *fakeClient
}

func (t *fakeTransport) Connect() (smtpclient.Client, error) { return t.client, nil }
func (t *fakeTransport) GetSMTPUser() string                 { return "noreply@streamhub.io" }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestNotifier_SendUpcomingExpiry(t *testing.T) {
	info := models.SubscriptionInfo{
		SubscriptionID: 7,
		Email:          "alice@example.com",
		Username:       "alice",
		PlanName:       "premium",
		EndDate:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(info)
	require.NoError(t, err)

	client := &fakeClient{}
	svc := New(&fakeTransport{client: client}, newNoopLogger())

	err = svc.SendUpcomingExpiry(body)
	require.NoError(t, err)

	assert.Equal(t, "noreply@streamhub.io", client.from)
	assert.Equal(t, []string{"alice@example.com"}, client.rcpts)
	assert.Contains(t, client.data.String(), "alice")
	assert.Contains(t, client.data.String(), "premium")
	assert.Contains(t, client.data.String(), "01.09.2026")
	assert.True(t, client.quit)
	assert.True(t, client.closed)
}

func TestNotifier_SendUpcomingExpiryBadPayload(t *testing.T) {
	svc := New(&fakeTransport{client: &fakeClient{}}, newNoopLogger())

	err := svc.SendUpcomingExpiry([]byte("{not json"))
	assert.Error(t, err)
}

func TestNotifier_SendExpiredNoticeWithoutEmailIsNoop(t *testing.T) {
	body, err := json.Marshal(map[string]any{"subscription_id": 4})
	require.NoError(t, err)

	client := &fakeClient{}
	svc := New(&fakeTransport{client: client}, newNoopLogger())

	err = svc.SendExpiredNotice(body)
	require.NoError(t, err)
	assert.Empty(t, client.rcpts)
}
