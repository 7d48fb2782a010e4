package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/planavail/config"
	"github.com/kilianp07/planavail/core/audit"
	"github.com/kilianp07/planavail/core/availability"
	"github.com/kilianp07/planavail/core/model"
	"github.com/kilianp07/planavail/infra/mqtt"
)

type fakePublisher struct {
	mu           sync.Mutex
	msgs         []mqtt.Message
	disconnected bool
}

func (f *fakePublisher) Publish(_ context.Context, msg mqtt.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakePublisher) Disconnect() { f.disconnected = true }

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Audit.Path = t.TempDir() + "/audit.jsonl"
	return cfg
}

func testRequest(t *testing.T) model.Request {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return model.Request{
		Start:        time.Date(2025, 1, 6, 0, 0, 0, 0, ny),
		End:          time.Date(2025, 1, 10, 23, 0, 0, 0, ny),
		CategoryType: "MC",
		Plans: []model.Plan{{
			ID:           "p1",
			DivisionID:   "d1",
			CategoryType: "MC",
			Start:        time.Date(2025, 1, 1, 9, 0, 0, 0, ny),
			End:          time.Date(2025, 12, 31, 17, 0, 0, 0, ny),
			Capacity:     2,
		}},
	}
}

func TestServiceResolveFansOut(t *testing.T) {
	now := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	pub := &fakePublisher{}
	svc, err := New(testConfig(t), WithClock(availability.FixedClock(now)), WithPublisher(pub))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	slots, err := svc.Resolve(ctx, testRequest(t))
	require.NoError(t, err)
	require.Len(t, slots, 5)

	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	pub.mu.Lock()
	msg := pub.msgs[0]
	pub.mu.Unlock()
	assert.Equal(t, "MC", msg.CategoryType)
	assert.Equal(t, model.MillisOf(now), msg.GeneratedAt)
	assert.Len(t, msg.Slots, 5)

	var recs []audit.Record
	assert.Eventually(t, func() bool {
		recs, err = svc.store.Query(ctx, audit.Query{PlanID: "p1"})
		return err == nil && len(recs) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, msg.EvaluationID, recs[0].ID)
	assert.Len(t, recs[0].Slots, 5)

	require.NoError(t, svc.Close())
	assert.True(t, pub.disconnected)
}

func TestServiceRejectsInvalidRequest(t *testing.T) {
	pub := &fakePublisher{}
	svc, err := New(testConfig(t), WithPublisher(pub), WithAuditStore(audit.NopStore{}))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	_, err = svc.Resolve(context.Background(), model.Request{CategoryType: "MC"})
	assert.ErrorIs(t, err, model.ErrInvalidRequest)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Resolve(ctx, testRequest(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServiceHandler(t *testing.T) {
	now := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	cfg := testConfig(t)
	cfg.HTTP.Token = "tok"
	svc, err := New(cfg, WithClock(availability.FixedClock(now)))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer func() { _ = svc.Close() }()

	body, err := json.Marshal(testRequest(t))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/availability", strings.NewReader(string(body)))
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var slots []model.Slot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &slots))
	assert.Len(t, slots, 5)

	assert.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/availability/logs?category_type=MC", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rr := httptest.NewRecorder()
		svc.Handler().ServeHTTP(rr, req)
		var recs []audit.Record
		return json.Unmarshal(rr.Body.Bytes(), &recs) == nil && len(recs) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestNewRejectsUnknownAuditBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.Backend = "kafka"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewWithPrometheus(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.PrometheusEnabled = true
	svc, err := New(cfg, WithAuditStore(audit.NopStore{}))
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), testRequest(t))
	require.NoError(t, err)
	require.NoError(t, svc.Close())
}

func TestNewWithInflux(t *testing.T) {
	var mu sync.Mutex
	var writes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"influxdb","status":"pass","checks":[]}`))
		case "/api/v2/write":
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			writes = append(writes, string(body))
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Metrics.PrometheusEnabled = true
	cfg.Metrics.InfluxURL = srv.URL
	cfg.Metrics.InfluxOrg = "org"
	cfg.Metrics.InfluxBucket = "availability"
	svc, err := New(cfg, WithAuditStore(audit.NopStore{}))
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), testRequest(t))
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, writes, 1)
	assert.True(t, strings.HasPrefix(writes[0], "availability_evaluation,category_type=MC,"), writes[0])
}
