package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripcraft/internal/models/request_models"
	"tripcraft/internal/services"
	"tripcraft/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	calendarService  services.CalendarServiceInterface
}

func NewItineraryController(
	itineraryService services.ItineraryServiceInterface,
	calendarService services.CalendarServiceInterface,
) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		calendarService:  calendarService,
	}
}

func ownerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func itineraryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid itinerary ID")
		return uuid.Nil, false
	}
	return id, true
}

// GenerateItinerary godoc
// @Summary Generate an itinerary
// @Description Generate a draft itinerary from trip parameters using the configured AI provider
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.GenerateItineraryRequest true "Trip parameters"
// @Success 201 {object} db_models.Itinerary
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/generate [post]
func (ic *ItineraryController) GenerateItinerary(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req request_models.GenerateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	itinerary, err := ic.itineraryService.GenerateItinerary(c.Request.Context(), owner, req.TripParameters)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusCreated, itinerary, "Itinerary generated successfully")
}

// ListItineraries godoc
// @Summary List itineraries
// @Description Fetch a paginated list of the user's itineraries, newest first.
// @Description The status filter matches the stored status; returned items carry the status derived at read time, which may differ.
// @Tags Itinerary
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Param status query string false "Filter by status"
// @Success 200 {object} response_models.PaginatedItineraries
// @Security BearerAuth
// @Router /itineraries [get]
func (ic *ItineraryController) ListItineraries(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var query request_models.ListItinerariesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := ic.itineraryService.ListItineraries(c.Request.Context(), owner, query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, page, "Itineraries fetched successfully")
}

// GetItinerary godoc
// @Summary Get itinerary by ID
// @Tags Itinerary
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} db_models.Itinerary
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [get]
func (ic *ItineraryController) GetItinerary(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itineraryID(c)
	if !ok {
		return
	}

	itinerary, err := ic.itineraryService.GetItinerary(c.Request.Context(), owner, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary fetched successfully")
}

// UpdateItinerary godoc
// @Summary Update itinerary
// @Description Edit destination, dates, budget, travelers, preferences or set the status by hand
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.UpdateItineraryRequest true "Fields to change"
// @Success 200 {object} db_models.Itinerary
// @Security BearerAuth
// @Router /itineraries/{id} [patch]
func (ic *ItineraryController) UpdateItinerary(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itineraryID(c)
	if !ok {
		return
	}

	var req request_models.UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	update, err := req.Parse()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	itinerary, err := ic.itineraryService.UpdateItinerary(c.Request.Context(), owner, id, update)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary updated successfully")
}

// DeleteItinerary godoc
// @Summary Delete itinerary
// @Tags Itinerary
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [delete]
func (ic *ItineraryController) DeleteItinerary(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itineraryID(c)
	if !ok {
		return
	}

	if err := ic.itineraryService.DeleteItinerary(c.Request.Context(), owner, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Itinerary deleted successfully")
}

// OptimizeBudget godoc
// @Summary Optimize itinerary budget
// @Description Refit the budget breakdown to a new total. Falls back to proportional scaling when the AI provider fails.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.OptimizeBudgetRequest true "New budget"
// @Success 200 {object} db_models.Itinerary
// @Security BearerAuth
// @Router /itineraries/{id}/optimize-budget [post]
func (ic *ItineraryController) OptimizeBudget(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itineraryID(c)
	if !ok {
		return
	}

	var req request_models.OptimizeBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	itinerary, err := ic.itineraryService.OptimizeBudget(c.Request.Context(), owner, id, req.NewBudget)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Budget optimized successfully")
}

// ExportCalendar godoc
// @Summary Export itinerary as iCalendar
// @Tags Itinerary
// @Produce text/calendar
// @Param id path string true "Itinerary ID"
// @Success 200 {string} string "iCalendar document"
// @Security BearerAuth
// @Router /itineraries/{id}/calendar.ics [get]
func (ic *ItineraryController) ExportCalendar(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := itineraryID(c)
	if !ok {
		return
	}

	body, err := ic.calendarService.ExportItinerary(c.Request.Context(), owner, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.ics"`, id))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
