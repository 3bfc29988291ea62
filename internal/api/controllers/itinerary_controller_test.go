package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripcraft/internal/config"
	"tripcraft/internal/models/db_models"
	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/pkg/utils"
)

var testUser = uuid.MustParse("0d9a2b8e-5a51-4c55-8f0e-6f7d0b5b9c21")

type stubItineraryService struct {
	itinerary *db_models.Itinerary
	err       error
	gotBudget float64
	gotParams request_models.TripParameters
}

func (s *stubItineraryService) GenerateItinerary(_ context.Context, _ uuid.UUID, params request_models.TripParameters) (*db_models.Itinerary, error) {
	s.gotParams = params
	return s.itinerary, s.err
}

func (s *stubItineraryService) ListItineraries(_ context.Context, _ uuid.UUID, q request_models.ListItinerariesQuery) (*response_models.PaginatedItineraries, error) {
	if s.err != nil {
		return nil, s.err
	}
	page := response_models.NewPaginatedItineraries([]db_models.Itinerary{*s.itinerary}, q.Page, q.PageSize, 1)
	return &page, nil
}

func (s *stubItineraryService) GetItinerary(context.Context, uuid.UUID, uuid.UUID) (*db_models.Itinerary, error) {
	return s.itinerary, s.err
}

func (s *stubItineraryService) UpdateItinerary(context.Context, uuid.UUID, uuid.UUID, request_models.ItineraryUpdate) (*db_models.Itinerary, error) {
	return s.itinerary, s.err
}

func (s *stubItineraryService) DeleteItinerary(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

func (s *stubItineraryService) OptimizeBudget(_ context.Context, _ uuid.UUID, _ uuid.UUID, newBudget float64) (*db_models.Itinerary, error) {
	s.gotBudget = newBudget
	return s.itinerary, s.err
}

type stubCalendarService struct{}

func (stubCalendarService) ExportItinerary(context.Context, uuid.UUID, uuid.UUID) (string, error) {
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

func newTestRouter(svc *stubItineraryService, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("trace_id", "trace-1")
		if authenticated {
			c.Set("user_id", testUser.String())
		}
		c.Next()
	})

	ic := NewItineraryController(svc, stubCalendarService{})
	g := r.Group("/itineraries")
	g.POST("/generate", ic.GenerateItinerary)
	g.GET("", ic.ListItineraries)
	g.GET("/:id", ic.GetItinerary)
	g.PATCH("/:id", ic.UpdateItinerary)
	g.DELETE("/:id", ic.DeleteItinerary)
	g.POST("/:id/optimize-budget", ic.OptimizeBudget)
	g.GET("/:id/calendar.ics", ic.ExportCalendar)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sampleItinerary() *db_models.Itinerary {
	it := &db_models.Itinerary{UserID: testUser, Status: db_models.StatusDraft}
	it.EnsureID()
	it.TripDetails.Destination = "Lisbon"
	return it
}

func TestGenerateItinerary_Created(t *testing.T) {
	svc := &stubItineraryService{itinerary: sampleItinerary()}
	r := newTestRouter(svc, true)

	w := perform(r, http.MethodPost, "/itineraries/generate",
		`{"destination": "Lisbon", "start_date": "2026-01-11", "end_date": "2026-01-16", "budget": 2000, "travelers": 2}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.Equal(t, "Lisbon", svc.gotParams.Destination)
	assert.Equal(t, 2000.0, svc.gotParams.Budget)
}

func TestGenerateItinerary_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"precondition", utils.NewGenerationError(fmt.Errorf("%w: budget must be greater than 0", utils.ErrPreconditionViolation)), http.StatusBadRequest},
		{"unavailable", utils.NewGenerationError(utils.ErrServiceUnavailable), http.StatusServiceUnavailable},
		{"malformed", utils.NewGenerationError(utils.ErrMalformedResponse), http.StatusBadGateway},
		{"incomplete", utils.NewGenerationError(utils.ErrIncompleteResponse), http.StatusBadGateway},
		{"database", utils.ErrDatabaseError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubItineraryService{err: tt.err}, true)

			w := perform(r, http.MethodPost, "/itineraries/generate", `{"destination": "Lisbon"}`)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "error", decode(t, w).Status)
		})
	}
}

func TestItineraryRoutes_RequireUser(t *testing.T) {
	r := newTestRouter(&stubItineraryService{itinerary: sampleItinerary()}, false)

	w := perform(r, http.MethodGet, "/itineraries/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetItinerary_BadIDAndNotFound(t *testing.T) {
	r := newTestRouter(&stubItineraryService{err: utils.ErrItineraryNotFound}, true)

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodGet, "/itineraries/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/itineraries/"+uuid.NewString(), "").Code)
}

func TestListItineraries_PassesQuery(t *testing.T) {
	r := newTestRouter(&stubItineraryService{itinerary: sampleItinerary()}, true)

	w := perform(r, http.MethodGet, "/itineraries?page=2&pageSize=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Items    []map[string]any `json:"items"`
			Page     int              `json:"page"`
			PageSize int              `json:"page_size"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Page)
	assert.Equal(t, 5, body.Data.PageSize)
	assert.Len(t, body.Data.Items, 1)
}

func TestUpdateItinerary_RejectsSystemStatus(t *testing.T) {
	r := newTestRouter(&stubItineraryService{itinerary: sampleItinerary()}, true)

	w := perform(r, http.MethodPatch, "/itineraries/"+uuid.NewString(), `{"status": "completed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptimizeBudget(t *testing.T) {
	svc := &stubItineraryService{itinerary: sampleItinerary()}
	r := newTestRouter(svc, true)
	path := "/itineraries/" + uuid.NewString() + "/optimize-budget"

	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, path, `{"newBudget": 0}`).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, path, `{"newBudget": -5}`).Code)
	assert.Zero(t, svc.gotBudget)

	w := perform(r, http.MethodPost, path, `{"newBudget": 1000}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1000.0, svc.gotBudget)
}

func TestExportCalendar(t *testing.T) {
	r := newTestRouter(&stubItineraryService{}, true)
	id := uuid.NewString()

	w := perform(r, http.MethodGet, "/itineraries/"+id+"/calendar.ics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), id)
	assert.True(t, strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR"))
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hc := NewHealthController(&config.Config{
		Storage:    config.StorageConfig{Driver: "mongo"},
		Generation: config.GenerationConfig{Provider: "gemini"},
	})
	r.GET("/health", hc.Health)

	w := perform(r, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"mongo"`)
	assert.Contains(t, w.Body.String(), `"flights_enabled":false`)
}

func TestSearchFlights_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/flights/search", NewFlightController(nil).SearchFlights)

	w := perform(r, http.MethodGet, "/flights/search?origin=JFK&destination=LIS&date=2026-01-11", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
