package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripcraft/internal/config"
	"tripcraft/internal/models/request_models"
	"tripcraft/pkg/utils"
)

type amadeusStub struct {
	tokenCalls  atomic.Int32
	searchCalls atomic.Int32
	status      int
}

func (s *amadeusStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"token_type":   "Bearer",
			"expires_in":   1799,
		})
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		s.searchCalls.Add(1)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "LIS", r.URL.Query().Get("destinationLocationCode"))
		if s.status != 0 {
			w.WriteHeader(s.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{
  "id": "1",
  "numberOfBookableSeats": 4,
  "itineraries": [{"duration": "PT5H", "segments": [
    {"departure": {"iataCode": "JFK", "at": "2026-01-11T08:00:00"}, "arrival": {"iataCode": "MAD", "at": "2026-01-11T11:00:00"}, "carrierCode": "IB", "number": "6250", "duration": "PT3H"},
    {"departure": {"iataCode": "MAD", "at": "2026-01-11T12:00:00"}, "arrival": {"iataCode": "LIS", "at": "2026-01-11T13:00:00"}, "carrierCode": "IB", "number": "3100", "duration": "PT1H"}
  ]}],
  "price": {"currency": "USD", "total": "412.50"}
}]}`))
	})
	return mux
}

func newStubbedFlightService(t *testing.T, stub *amadeusStub) *FlightService {
	server := httptest.NewServer(stub.handler(t))
	t.Cleanup(server.Close)
	return NewFlightService(config.FlightsConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		CacheTTL:     time.Minute,
		Timeout:      5 * time.Second,
	}, nil)
}

func TestSearchFlights_MapsOffersAndCaches(t *testing.T) {
	stub := &amadeusStub{}
	svc := newStubbedFlightService(t, stub)
	query := request_models.FlightSearchQuery{Origin: "jfk", Destination: "lis", Date: "2026-01-11"}

	first, err := svc.SearchFlights(context.Background(), query)
	require.NoError(t, err)

	require.Len(t, first.Offers, 1)
	offer := first.Offers[0]
	assert.Equal(t, 412.5, offer.Price)
	assert.Equal(t, 1, offer.Stops)
	assert.Equal(t, "IB6250", offer.Segments[0].FlightNumber)
	assert.Equal(t, 1, first.Adults)
	assert.False(t, first.Cached)

	second, err := svc.SearchFlights(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int32(1), stub.searchCalls.Load())
	assert.Equal(t, int32(1), stub.tokenCalls.Load())
}

func TestSearchFlights_ReusesTokenAcrossQueries(t *testing.T) {
	stub := &amadeusStub{}
	svc := newStubbedFlightService(t, stub)

	for _, date := range []string{"2026-01-11", "2026-01-12"} {
		_, err := svc.SearchFlights(context.Background(), request_models.FlightSearchQuery{Origin: "JFK", Destination: "LIS", Date: date})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), stub.searchCalls.Load())
	assert.Equal(t, int32(1), stub.tokenCalls.Load())
}

func TestSearchFlights_UpstreamFailure(t *testing.T) {
	stub := &amadeusStub{status: http.StatusInternalServerError}
	svc := newStubbedFlightService(t, stub)

	_, err := svc.SearchFlights(context.Background(), request_models.FlightSearchQuery{Origin: "JFK", Destination: "LIS", Date: "2026-01-11"})

	assert.ErrorIs(t, err, utils.ErrFlightSearchFailed)
}

func TestSearchFlights_RejectsBadQuery(t *testing.T) {
	svc := newStubbedFlightService(t, &amadeusStub{})

	_, err := svc.SearchFlights(context.Background(), request_models.FlightSearchQuery{Origin: "JFK", Destination: "LIS", Date: "11/01/2026"})

	assert.ErrorIs(t, err, utils.ErrPreconditionViolation)
}
