package response_models

import "tripcraft/internal/models/db_models"

type PaginatedItineraries struct {
	Items      []db_models.Itinerary `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int64                 `json:"total"`
	TotalPages int                   `json:"total_pages"`
}

func NewPaginatedItineraries(items []db_models.Itinerary, page, pageSize int, total int64) PaginatedItineraries {
	if items == nil {
		items = []db_models.Itinerary{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginatedItineraries{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Storage   string `json:"storage"`
	Generator string `json:"generator"`
	Flights   bool   `json:"flights_enabled"`
}
