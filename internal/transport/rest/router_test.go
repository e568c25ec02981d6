package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lungscreen/internal/cache"
	"lungscreen/internal/config"
	"lungscreen/internal/model"
	"lungscreen/internal/service"
	"lungscreen/internal/transport/ws"
)

// fakeReportRepo keeps reports in memory so the full HTTP surface can run
// without Mongo
type fakeReportRepo struct {
	mu      sync.Mutex
	reports map[string]*model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*model.Report)}
}

func (r *fakeReportRepo) Save(_ context.Context, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.SessionID] = report
	return nil
}

func (r *fakeReportRepo) GetBySessionID(_ context.Context, sessionID string) (*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reports[sessionID], nil
}

func (r *fakeReportRepo) List(_ context.Context, _ int64) ([]*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	return out, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	stats := cache.NewMemoryStatsCache()
	authSvc := service.NewAuthService()
	reportSvc := service.NewReportService(newFakeReportRepo(), stats, t.TempDir())
	sessionSvc := service.NewSessionService(cache.NewMemorySessionStore(), authSvc, reportSvc)
	speechSvc := service.NewSpeechService(&config.AIConfig{}, t.TempDir())

	return NewRouter(&Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		ReportService:  reportSvc,
		SpeechService:  speechSvc,
		Stats:          stats,
		WSHub:          ws.NewHub(),
	})
}

func TestRouter_SessionLifecycle(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"catalog":"basic"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/sessions", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var start service.StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &start))
	require.NotEmpty(t, start.SessionID)
	require.NotEmpty(t, start.Token)
	assert.Equal(t, "name", start.Question.ID)

	t.Run("reply without a token is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/sessions/"+start.SessionID+"/reply",
			bytes.NewBufferString(`{"text":"张伟"}`))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("reply advances to the next question", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/sessions/"+start.SessionID+"/reply",
			bytes.NewBufferString(`{"text":"张伟"}`))
		req.Header.Set("Authorization", "Bearer "+start.Token)
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var reply service.ReplyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.False(t, reply.Done)
		assert.Equal(t, "gender", reply.Question.ID)
		assert.Equal(t, "1/28", reply.Progress)
	})

	t.Run("progress snapshot", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/v1/sessions/"+start.SessionID, nil)
		req.Header.Set("Authorization", "Bearer "+start.Token)
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var snap service.ReplyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		assert.Equal(t, "1/28", snap.Progress)
	})

	t.Run("unknown session is 404", func(t *testing.T) {
		token, err := service.NewAuthService().IssueSessionToken("sess_ghost")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/sessions/sess_ghost/reply",
			bytes.NewBufferString(`{"text":"你好"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_StartRejectsUnknownCatalog(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/sessions",
		bytes.NewBufferString(`{"catalog":"deluxe"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ReportsAndStats(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing report is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/reports/sess_none", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty report list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/reports", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"reports":[],"count":0}`, rec.Body.String())
	})

	t.Run("stats start at zero", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/stats", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Total        int64            `json:"total"`
			Distribution map[string]int64 `json:"distribution"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Zero(t, resp.Total)
	})
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
