package controllers

import (
	"github.com/gin-gonic/gin"

	"tripcraft/internal/config"
	"tripcraft/internal/models/response_models"
	"tripcraft/pkg/utils"
)

type HealthController struct {
	cfg *config.Config
}

func NewHealthController(cfg *config.Config) *HealthController {
	return &HealthController{cfg: cfg}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response_models.HealthResponse
// @Router /health [get]
func (hc *HealthController) Health(c *gin.Context) {
	utils.RespondSuccess(c, response_models.HealthResponse{
		Status:    "ok",
		Storage:   hc.cfg.Storage.Driver,
		Generator: hc.cfg.Generation.Provider,
		Flights:   hc.cfg.FlightsEnabled(),
	}, "Service is healthy")
}
