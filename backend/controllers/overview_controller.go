package controllers

import (
	"skillpractice/backend/middleware"
	"skillpractice/backend/models"
	"skillpractice/backend/services"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type OverviewController struct {
	Progress *services.ProgressService
	Log      *utils.Logger
}

func NewOverviewController(progress *services.ProgressService, log *utils.Logger) *OverviewController {
	return &OverviewController{Progress: progress, Log: log}
}

// SearchCourses godoc
// @Summary Search courses
// @Description Catalog courses matching the search text and difficulty, with the user's completion
// @Tags overview
// @Produce json
// @Param search query string false "Text in title or description"
// @Param difficulty query string false "beginner, intermediate or advanced"
// @Success 200 {object} utils.SuccessResponse{data=[]models.CourseSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /overview/courses [get]
func (oc *OverviewController) SearchCourses(c *fiber.Ctx) error {
	filter := services.CourseFilter{
		Search:     c.Query("search"),
		Difficulty: models.ParseDifficulty(c.Query("difficulty")),
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return utils.BadRequest(c, "Unknown difficulty")
	}

	user := middleware.CurrentUser(c)
	courses, err := oc.Progress.SearchCourses(c.UserContext(), user.ID, filter)
	if err != nil {
		return utils.HandleError(c, oc.Log, err)
	}
	return utils.OK(c, courses)
}

// GetUserOverview godoc
// @Summary User dashboard
// @Description Experience, statistics, per-course completion and the next course to take
// @Tags overview
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=services.UserOverview}
// @Security ApiKeyAuth
// @Router /overview [get]
func (oc *OverviewController) GetUserOverview(c *fiber.Ctx) error {
	overview, err := oc.Progress.Overview(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return utils.HandleError(c, oc.Log, err)
	}
	return utils.OK(c, overview)
}
