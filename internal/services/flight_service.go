package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"tripcraft/internal/config"
	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	mem "tripcraft/pkg/memcache"
	"tripcraft/pkg/utils"
)

const tokenLeeway = 30 * time.Second

type FlightServiceInterface interface {
	SearchFlights(ctx context.Context, query request_models.FlightSearchQuery) (*response_models.FlightSearchResult, error)
}

type FlightService struct {
	baseURL    string
	httpClient *http.Client
	token      *mem.AccessToken
	offers     *cache.Cache
}

// NewFlightService talks to the Amadeus Flight Offers API with client-credential tokens.
func NewFlightService(cfg config.FlightsConfig, clock utils.Clock) *FlightService {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.BaseURL + "/v1/security/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	refresh := func(ctx context.Context) (string, time.Time, error) {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		tok, err := credentials.Token(ctx)
		if err != nil {
			return "", time.Time{}, err
		}
		return tok.AccessToken, tok.Expiry, nil
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &FlightService{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		token:      mem.NewAccessToken(refresh, clock, tokenLeeway),
		offers:     cache.New(ttl, 2*ttl),
	}
}

func flightCacheKey(q request_models.FlightSearchQuery) string {
	return fmt.Sprintf("%s:%s:%s:%d", q.Origin, q.Destination, q.Date, q.Adults)
}

func (s *FlightService) SearchFlights(ctx context.Context, query request_models.FlightSearchQuery) (*response_models.FlightSearchResult, error) {
	if err := query.Normalize(); err != nil {
		return nil, err
	}

	key := flightCacheKey(query)
	if cached, ok := s.offers.Get(key); ok {
		result := cached.(response_models.FlightSearchResult)
		result.Cached = true
		return &result, nil
	}

	offers, err := s.fetchOffers(ctx, query)
	if err != nil {
		log.Printf("Flight search %s failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", utils.ErrFlightSearchFailed, err)
	}

	result := response_models.FlightSearchResult{
		Origin:      query.Origin,
		Destination: query.Destination,
		Date:        query.Date,
		Adults:      query.Adults,
		Offers:      offers,
	}
	s.offers.SetDefault(key, result)
	return &result, nil
}

type amadeusOffersResponse struct {
	Data []struct {
		ID                    string `json:"id"`
		NumberOfBookableSeats int    `json:"numberOfBookableSeats"`
		Itineraries           []struct {
			Duration string `json:"duration"`
			Segments []struct {
				Departure struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
				Duration    string `json:"duration"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Currency string `json:"currency"`
			Total    string `json:"total"`
		} `json:"price"`
	} `json:"data"`
}

func (s *FlightService) fetchOffers(ctx context.Context, query request_models.FlightSearchQuery) ([]response_models.FlightOffer, error) {
	token, err := s.token.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	params := url.Values{}
	params.Set("originLocationCode", query.Origin)
	params.Set("destinationLocationCode", query.Destination)
	params.Set("departureDate", query.Date)
	params.Set("adults", strconv.Itoa(query.Adults))
	params.Set("currencyCode", "USD")
	params.Set("max", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v2/shopping/flight-offers?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		s.token.Invalidate()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight offers returned status %d", resp.StatusCode)
	}

	var body amadeusOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode flight offers: %w", err)
	}

	offers := make([]response_models.FlightOffer, 0, len(body.Data))
	for _, d := range body.Data {
		if len(d.Itineraries) == 0 {
			continue
		}
		outbound := d.Itineraries[0]
		price, _ := strconv.ParseFloat(d.Price.Total, 64)
		offer := response_models.FlightOffer{
			ID:           d.ID,
			Price:        price,
			Currency:     d.Price.Currency,
			Duration:     outbound.Duration,
			Stops:        max(len(outbound.Segments)-1, 0),
			BookableSeat: d.NumberOfBookableSeats,
		}
		for _, seg := range outbound.Segments {
			offer.Segments = append(offer.Segments, response_models.FlightSegment{
				DepartureAirport: seg.Departure.IataCode,
				DepartureTime:    seg.Departure.At,
				ArrivalAirport:   seg.Arrival.IataCode,
				ArrivalTime:      seg.Arrival.At,
				CarrierCode:      seg.CarrierCode,
				FlightNumber:     seg.CarrierCode + seg.Number,
				Duration:         seg.Duration,
			})
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
