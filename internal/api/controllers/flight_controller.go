package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

type FlightController struct {
	flightService services.FlightServiceInterface
}

// NewFlightController accepts a nil service; search then answers 503.
func NewFlightController(flightService services.FlightServiceInterface) *FlightController {
	return &FlightController{flightService: flightService}
}

// SearchFlights godoc
// @Summary Search flight offers
// @Tags Flights
// @Produce json
// @Param origin query string true "Origin IATA code"
// @Param destination query string true "Destination IATA code"
// @Param date query string true "Departure date (YYYY-MM-DD)"
// @Param adults query int false "Number of adults" default(1)
// @Success 200 {object} response_models.FlightSearchResult
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /flights/search [get]
func (fc *FlightController) SearchFlights(c *gin.Context) {
	if fc.flightService == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, "Flight search is not configured")
		return
	}

	var query request_models.FlightSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "origin, destination (IATA codes) and date are required")
		return
	}

	result, err := fc.flightService.SearchFlights(c.Request.Context(), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Flights fetched successfully")
}
