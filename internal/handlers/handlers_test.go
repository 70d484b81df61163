package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"social-analytics-dashboard/internal/analytics"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/handlers"
	"social-analytics-dashboard/internal/models"
	"social-analytics-dashboard/internal/services"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

// fakeBackend mimics the analytics backend endpoints the dashboard calls.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload-reference-images", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"paths":["uploads/reference/x/Acme/x1/ref_1.png"]}`))
	})
	mux.HandleFunc("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"analysis_id":"0123456789abcdef","status":"started"}`))
	})
	mux.HandleFunc("/api/analysis/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.Write([]byte(`{"message":"deleted"}`))
		case strings.HasSuffix(r.URL.Path, "/missing"):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Analysis not found"}`))
		case strings.HasSuffix(r.URL.Path, "/running"):
			w.Write([]byte(`{"status":"processing","progress":40,"message":"Scraping"}`))
		default:
			w.Write([]byte(`{"status":"completed","progress":100,"message":"Done","brands_data":{"Acme":{"overall_metrics":{"total_posts":3,"total_engagement":1500}}}}`))
		}
	})
	mux.HandleFunc("/api/recent-analyses", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"analysis_id":"0123456789abcdef","status":"completed","progress":100,"message":"Done","updated_at":"2025-01-15T10:30:00"}]`))
	})
	mux.HandleFunc("/api/filter-results/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"filtered_results":{"Acme":{"overall_metrics":{"total_posts":1}}}}`))
	})
	mux.HandleFunc("/api/download/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("brand,posts\nAcme,3\n"))
	})
	mux.HandleFunc("/api/image-proxy", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8, 0xff})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type testAPI struct {
	t       *testing.T
	router  *gin.Engine
	manager *services.SessionManager
	store   *services.MemoryJobStore
	token   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := fakeBackend(t)
	client := analytics.NewClient(backend.URL, "", 5*time.Second)
	store := services.NewMemoryJobStore()
	poll := services.PollConfig{
		InitialDelay: time.Millisecond,
		Interval:     time.Millisecond,
		BackoffStep:  time.Millisecond,
		MaxBackoff:   time.Millisecond,
		MaxRetries:   3,
	}
	manager := services.NewSessionManager(services.SessionDeps{Client: client, Poll: poll, Store: store})
	t.Cleanup(manager.Shutdown)
	history := services.NewHistoryService(client, store, nil, nil)

	cfg := &config.Config{SupabaseJWTSecret: testSecret}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return &testAPI{
		t:       t,
		router:  handlers.NewRouter(cfg, manager, history, nil),
		manager: manager,
		store:   store,
		token:   token,
	}
}

func (a *testAPI) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	a.t.Helper()
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(a.t, err)
	req.Header.Set("Authorization", "Bearer "+a.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) json(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(a.t, err)
	}
	return a.do(method, path, data, "application/json")
}

func (a *testAPI) createSession() string {
	a.t.Helper()
	w := a.json(http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(a.t, http.StatusCreated, w.Code)
	var resp models.SessionCreatedResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.SessionID
}

// waitCompleted blocks until the session's poll goroutine has finished.
func (a *testAPI) waitCompleted(sessionID string) handlers.SessionResponse {
	a.t.Helper()
	session, err := a.manager.Get(sessionID, "user-1")
	require.NoError(a.t, err)
	select {
	case <-session.PollDone():
	case <-time.After(5 * time.Second):
		a.t.Fatal("poller did not finish")
	}

	w := a.json(http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	require.Equal(a.t, http.StatusOK, w.Code)
	var snap handlers.SessionResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Equal(a.t, services.StateCompleted, snap.State)
	return snap
}

var acmeRequest = models.StartAnalysisRequest{Brands: []models.BrandInput{{
	Name:         "Acme",
	InstagramURL: "https://instagram.com/acme",
	FacebookURL:  "https://facebook.com/acme",
	Keywords:     []string{"x1", "x2"},
}}}

func TestHealthHandler(t *testing.T) {
	api := newTestAPI(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSessions_RequireAuth(t *testing.T) {
	api := newTestAPI(t)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessions_AnalysisLifecycle(t *testing.T) {
	api := newTestAPI(t)
	id := api.createSession()

	w := api.json(http.MethodPost, "/api/v1/sessions/"+id+"/analyze", acmeRequest)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"analysis_id":"0123456789abcdef"`)

	snap := api.waitCompleted(id)
	assert.Equal(t, 100, snap.ProgressView.Percent)
	assert.Equal(t, "green", snap.ProgressView.Color)
	require.Len(t, snap.Brands, 1)
	assert.Equal(t, "1,500", snap.Brands[0].TotalEngagement)

	w = api.json(http.MethodGet, "/api/v1/sessions/"+id+"/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes handlers.NotificationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	require.Len(t, notes.Notifications, 2)
	assert.Equal(t, services.LevelSuccess, notes.Notifications[1].Level)

	w = api.json(http.MethodGet, "/api/v1/tracked", nil)
	assert.Contains(t, w.Body.String(), `"poll_state":"completed"`)
}

func TestSessions_StartAnalysisValidation(t *testing.T) {
	api := newTestAPI(t)
	id := api.createSession()

	w := api.json(http.MethodPost, "/api/v1/sessions/"+id+"/analyze", models.StartAnalysisRequest{Brands: []models.BrandInput{{Name: "Acme"}}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in all required fields for each brand.")
}

func TestSessions_ReferenceImages(t *testing.T) {
	api := newTestAPI(t)
	id := api.createSession()

	upload := func(n int) *httptest.ResponseRecorder {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		writer.WriteField("brand", "Acme")
		writer.WriteField("model", "x1")
		for i := 0; i < n; i++ {
			part, _ := writer.CreateFormFile("files", "ref.png")
			part.Write([]byte("\x89PNG"))
		}
		writer.Close()
		return api.do(http.MethodPost, "/api/v1/sessions/"+id+"/reference-images", body.Bytes(), writer.FormDataContentType())
	}

	w := upload(4)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Maximum 3 images allowed per model")

	w = upload(2)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"count":2`)

	w = api.json(http.MethodDelete, "/api/v1/sessions/"+id+"/reference-images/Acme/x1/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = api.json(http.MethodDelete, "/api/v1/sessions/"+id+"/reference-images/Acme/x1/7", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessions_FilterAndDownload(t *testing.T) {
	api := newTestAPI(t)
	id := api.createSession()

	w := api.json(http.MethodPost, "/api/v1/sessions/"+id+"/filter", models.DateRangeRequest{StartDate: "2025-01-01", EndDate: "2025-01-31"})
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusAccepted, api.json(http.MethodPost, "/api/v1/sessions/"+id+"/analyze", acmeRequest).Code)
	api.waitCompleted(id)

	w = api.json(http.MethodPost, "/api/v1/sessions/"+id+"/filter", models.DateRangeRequest{StartDate: "2025-02-01", EndDate: "2025-01-31"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Start date must be before end date.")

	w = api.json(http.MethodPost, "/api/v1/sessions/"+id+"/filter", models.DateRangeRequest{StartDate: "2025-01-01", EndDate: "2025-01-31"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total_posts":1`)

	w = api.json(http.MethodGet, "/api/v1/sessions/"+id+"/download?start_date=2025-01-01&end_date=2025-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="report.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "brand,posts\nAcme,3\n", w.Body.String())

	w = api.json(http.MethodDelete, "/api/v1/sessions/"+id+"/filter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_posts":3`)
}

func TestSessions_LoadAnalysis(t *testing.T) {
	api := newTestAPI(t)
	id := api.createSession()

	w := api.json(http.MethodPost, "/api/v1/sessions/"+id+"/load/running", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.json(http.MethodPost, "/api/v1/sessions/"+id+"/load/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Analysis not found")

	w = api.json(http.MethodPost, "/api/v1/sessions/"+id+"/load/0123456789abcdef", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"completed"`)
}

func TestSessions_OwnerIsolation(t *testing.T) {
	api := newTestAPI(t)
	id := api.createSession()

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-2"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	api.token = other

	w := api.json(http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.json(http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, api.manager.Len())
}

func TestAnalyses_HistoryAndDelete(t *testing.T) {
	api := newTestAPI(t)

	w := api.json(http.MethodGet, "/api/v1/analyses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history handlers.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Analyses, 1)
	assert.Equal(t, "01234567", history.Analyses[0].ShortID)
	assert.True(t, history.Analyses[0].Loadable)

	w = api.json(http.MethodDelete, "/api/v1/analyses/0123456789abcdef", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyses_DeleteRequiresOwner(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.store.SaveTracked(context.Background(), models.TrackedAnalysis{AnalysisID: "fedcba9876543210", Owner: "user-2"}))

	w := api.json(http.MethodDelete, "/api/v1/analyses/fedcba9876543210", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestImageProxy(t *testing.T) {
	api := newTestAPI(t)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/image-proxy?url="+"https%3A%2F%2Fscontent.cdninstagram.com%2Fa.jpg", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))

	for _, target := range []string{"ftp://x", "https%3A%2F%2Fexample.com%2Fa.jpg", "http%3A%2F%2F169.254.169.254%2Flatest%2Fmeta-data"} {
		req, _ = http.NewRequest(http.MethodGet, "/api/v1/image-proxy?url="+target, nil)
		w = httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), "unsupported image url")
	}
}
