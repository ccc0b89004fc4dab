package controllers

import (
	"skillpractice/backend/services"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsController struct {
	Analytics *services.AnalyticsService
	Log       *utils.Logger
}

func NewAnalyticsController(analytics *services.AnalyticsService, log *utils.Logger) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics, Log: log}
}

// GetPlatformAnalytics возвращает аналитику по всей платформе (только для админов)
// @Summary Platform analytics
// @Tags admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=services.PlatformAnalytics}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/analytics [get]
func (ac *AnalyticsController) GetPlatformAnalytics(c *fiber.Ctx) error {
	analytics, err := ac.Analytics.Platform(c.UserContext())
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.OK(c, analytics)
}
