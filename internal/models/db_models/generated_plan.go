package db_models

// GeneratedPlan is the generator-produced part of an itinerary. Every sub-shape is optional
// because the generator only follows the requested contract loosely.
type GeneratedPlan struct {
	Flights        []Flight        `json:"flights"`
	Accommodations []Accommodation `json:"accommodations"`
	Activities     []Activity      `json:"activities"`
	DailyItinerary []DayPlan       `json:"daily_itinerary"`
}

type Coordinates struct {
	Lat FlexFloat `json:"lat"`
	Lng FlexFloat `json:"lng"`
}

type Flight struct {
	Type             string    `json:"type"`
	DepartureCity    string    `json:"departure_city,omitempty"`
	DepartureAirport string    `json:"departure_airport,omitempty"`
	ArrivalCity      string    `json:"arrival_city,omitempty"`
	ArrivalAirport   string    `json:"arrival_airport,omitempty"`
	DepartureTime    FlexTime  `json:"departure_time"`
	ArrivalTime      FlexTime  `json:"arrival_time"`
	Duration         string    `json:"duration,omitempty"`
	Airline          string    `json:"airline,omitempty"`
	FlightNumber     string    `json:"flight_number,omitempty"`
	Price            FlexFloat `json:"price"`
	BookingClass     string    `json:"booking_class,omitempty"`
	Stops            FlexInt   `json:"stops"`
	LayoverInfo      []string  `json:"layover_info,omitempty"`
}

type AccommodationLocation struct {
	Address     string      `json:"address,omitempty"`
	City        string      `json:"city,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Accommodation struct {
	Name               string                `json:"name"`
	Type               string                `json:"type,omitempty"`
	Location           AccommodationLocation `json:"location"`
	CheckIn            FlexTime              `json:"check_in"`
	CheckOut           FlexTime              `json:"check_out"`
	Nights             FlexInt               `json:"nights"`
	RoomType           string                `json:"room_type,omitempty"`
	PricePerNight      FlexFloat             `json:"price_per_night"`
	TotalPrice         FlexFloat             `json:"total_price"`
	Rating             FlexFloat             `json:"rating"`
	Amenities          []string              `json:"amenities,omitempty"`
	Images             []string              `json:"images,omitempty"`
	CancellationPolicy string                `json:"cancellation_policy,omitempty"`
}

type ActivityLocation struct {
	Name        string      `json:"name,omitempty"`
	Address     string      `json:"address,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Activity struct {
	Day             FlexInt          `json:"day"`
	Time            string           `json:"time,omitempty"`
	Activity        string           `json:"activity"`
	Category        string           `json:"category,omitempty"`
	Location        ActivityLocation `json:"location"`
	Price           FlexFloat        `json:"price"`
	Duration        string           `json:"duration,omitempty"`
	Description     string           `json:"description,omitempty"`
	BookingRequired bool             `json:"booking_required"`
	Rating          FlexFloat        `json:"rating"`
	ReviewsCount    FlexInt          `json:"reviews_count"`
}

type Weather struct {
	Temperature FlexFloat `json:"temperature"`
	Condition   string    `json:"condition,omitempty"`
	Humidity    FlexFloat `json:"humidity"`
}

type TimeSlot struct {
	Activity string    `json:"activity"`
	Location string    `json:"location,omitempty"`
	Duration string    `json:"duration,omitempty"`
	Cost     FlexFloat `json:"cost"`
}

type Meal struct {
	Restaurant    string    `json:"restaurant"`
	Cuisine       string    `json:"cuisine,omitempty"`
	EstimatedCost FlexFloat `json:"estimated_cost"`
	Location      string    `json:"location,omitempty"`
}

type Meals struct {
	Breakfast *Meal `json:"breakfast,omitempty"`
	Lunch     *Meal `json:"lunch,omitempty"`
	Dinner    *Meal `json:"dinner,omitempty"`
}

type DayTransportation struct {
	Type    string    `json:"type,omitempty"`
	Cost    FlexFloat `json:"cost"`
	Details string    `json:"details,omitempty"`
}

type DayPlan struct {
	Day             FlexInt            `json:"day"`
	Date            FlexTime           `json:"date"`
	Weather         *Weather           `json:"weather,omitempty"`
	BudgetAllocated FlexFloat          `json:"budget_allocated"`
	Morning         *TimeSlot          `json:"morning,omitempty"`
	Afternoon       *TimeSlot          `json:"afternoon,omitempty"`
	Evening         *TimeSlot          `json:"evening,omitempty"`
	Meals           *Meals             `json:"meals,omitempty"`
	Transportation  *DayTransportation `json:"transportation,omitempty"`
}

// BudgetBreakdown is the categorized allocation of the trip budget plus derived totals.
type BudgetBreakdown struct {
	Flights         float64 `json:"flights"`
	Accommodation   float64 `json:"accommodation"`
	Activities      float64 `json:"activities"`
	Food            float64 `json:"food"`
	Transportation  float64 `json:"transportation"`
	Shopping        float64 `json:"shopping"`
	Miscellaneous   float64 `json:"miscellaneous"`
	TotalSpent      float64 `json:"total_spent"`
	RemainingBudget float64 `json:"remaining_budget"`
	DailyAverage    float64 `json:"daily_average"`
}

// Categories returns pointers to the seven category amounts, in a fixed order.
func (b *BudgetBreakdown) Categories() []*float64 {
	return []*float64{
		&b.Flights,
		&b.Accommodation,
		&b.Activities,
		&b.Food,
		&b.Transportation,
		&b.Shopping,
		&b.Miscellaneous,
	}
}

func (b BudgetBreakdown) CategorySum() float64 {
	sum := 0.0
	for _, v := range b.Categories() {
		sum += *v
	}
	return sum
}

func (b BudgetBreakdown) IsZero() bool {
	for _, v := range b.Categories() {
		if *v != 0 {
			return false
		}
	}
	return true
}
