package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nearmark/internal/model"
	"nearmark/internal/service/tracker"
)

type stubGraph struct{}

func (stubGraph) ListCounterparts(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

type stubBackend struct{}

func (stubBackend) WriteLocation(ctx context.Context, userID string, c model.Coordinate, at time.Time) error {
	return nil
}

func (stubBackend) HasOpenSession(ctx context.Context, ownerID, counterpartID string) (bool, error) {
	return false, nil
}

func (stubBackend) OpenSession(ctx context.Context, ownerID, counterpartID string, c model.Coordinate, at time.Time) (string, error) {
	return "s", nil
}

func (stubBackend) CloseOpenSessions(ctx context.Context, ownerID, counterpartID string, endC model.Coordinate, endT time.Time) (int, error) {
	return 0, nil
}

func (stubBackend) FetchLocations(ctx context.Context, userIDs []string) (map[string]*model.UserLocation, error) {
	return map[string]*model.UserLocation{}, nil
}

type stubNotifier struct{}

func (stubNotifier) NotifyProximity(ctx context.Context, userID, message string) (bool, error) {
	return true, nil
}

type stubSessions struct {
	sessions []model.ProximitySession
	err      error
}

func (s *stubSessions) SessionsForUser(ctx context.Context, userID string) ([]model.ProximitySession, error) {
	return s.sessions, s.err
}

func (s *stubSessions) OpenSessionsForUser(ctx context.Context, userID string) ([]model.ProximitySession, error) {
	return s.sessions, s.err
}

func newTestRouter(registry *tracker.Registry, sessions SessionReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	SetupMainHandlers(r.Group(""))
	api := r.Group("/api")
	SetupLocationHandlers(api, registry)
	SetupSessionHandlers(api, sessions)

	return r
}

func newTestRegistry() *tracker.Registry {
	return tracker.NewRegistry(stubBackend{}, stubNotifier{}, stubGraph{}, time.Hour)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(newTestRegistry(), &stubSessions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestLocationIngestReportsSamplingRegime(t *testing.T) {
	registry := newTestRegistry()
	registry.Track("alice")
	r := newTestRouter(registry, &stubSessions{})

	body := `{"latitude": 37.7749, "longitude": -122.4194}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/alice/location", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Accuracy   string `json:"accuracy"`
		Continuous bool   `json:"continuous"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Accuracy == "" {
		t.Fatal("response must report the requested accuracy")
	}
}

func TestLocationIngestRejectsUntrackedUser(t *testing.T) {
	r := newTestRouter(newTestRegistry(), &stubSessions{})

	body := `{"latitude": 1, "longitude": 1}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/ghost/location", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestLocationIngestValidatesPayload(t *testing.T) {
	registry := newTestRegistry()
	registry.Track("alice")
	r := newTestRouter(registry, &stubSessions{})

	bad := []string{
		`{"longitude": 1}`,
		`{"latitude": 91, "longitude": 1}`,
		`{"latitude": 1, "longitude": -181}`,
		`not json`,
	}
	for _, body := range bad {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/users/alice/location", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestSessionHistoryEndpoint(t *testing.T) {
	sessions := &stubSessions{sessions: []model.ProximitySession{
		*model.NewProximitySession("alice", "bob", model.Coordinate{Lat: 1, Lng: 1}, time.Now()),
	}}
	r := newTestRouter(newTestRegistry(), sessions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/alice/sessions", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var list []model.ProximitySession
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(list) != 1 || list[0].CounterpartID != "bob" {
		t.Fatalf("unexpected sessions: %+v", list)
	}
}
