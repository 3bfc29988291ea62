package response_models

type FlightSegment struct {
	DepartureAirport string `json:"departure_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalAirport   string `json:"arrival_airport"`
	ArrivalTime      string `json:"arrival_time"`
	CarrierCode      string `json:"carrier_code"`
	FlightNumber     string `json:"flight_number"`
	Duration         string `json:"duration"`
}

type FlightOffer struct {
	ID           string          `json:"id"`
	Price        float64         `json:"price"`
	Currency     string          `json:"currency"`
	Duration     string          `json:"duration"`
	Stops        int             `json:"stops"`
	BookableSeat int             `json:"bookable_seats"`
	Segments     []FlightSegment `json:"segments"`
}

type FlightSearchResult struct {
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Date        string        `json:"date"`
	Adults      int           `json:"adults"`
	Cached      bool          `json:"cached"`
	Offers      []FlightOffer `json:"offers"`
}
