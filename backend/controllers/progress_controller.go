package controllers

import (
	"strconv"

	"skillpractice/backend/middleware"
	"skillpractice/backend/services"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Progress *services.ProgressService
	Log      *utils.Logger
}

func NewProgressController(progress *services.ProgressService, log *utils.Logger) *ProgressController {
	return &ProgressController{Progress: progress, Log: log}
}

type UpsertProgressRequest struct {
	Completed bool `json:"completed" example:"true"`
	Score     int  `json:"score" validate:"gte=0,lte=100" example:"90"`
}

// GetAllProgress godoc
// @Summary Get user progress
// @Description Returns the user's progress keyed by course id, then challenge id
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=services.CourseMap}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/progress/all [get]
func (pc *ProgressController) GetAllProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	progress, err := pc.Progress.Progress(c.UserContext(), user.ID)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, progress)
}

// GetCourseProgress godoc
// @Summary Get course progress
// @Tags progress
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses/progress/{courseId} [get]
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	progress, err := pc.Progress.CourseProgress(c.UserContext(), user.ID, c.Params("courseId"))
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, progress)
}

// UpdateProgress godoc
// @Summary Save challenge progress
// @Description Inserts or overwrites the progress of one challenge
// @Tags progress
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param challengeId path int true "Challenge ID"
// @Param input body UpsertProgressRequest true "Progress"
// @Success 200 {object} utils.SuccessResponse{data=models.Progress}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/progress/{courseId}/{challengeId} [post]
func (pc *ProgressController) UpdateProgress(c *fiber.Ctx) error {
	challengeID, err := strconv.Atoi(c.Params("challengeId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid challenge ID")
	}

	var input UpsertProgressRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user := middleware.CurrentUser(c)
	progress, err := pc.Progress.Upsert(c.UserContext(), user.ID, c.Params("courseId"), challengeID, input.Completed, input.Score)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, progress, "Progress saved")
}

// DeleteCourseProgress godoc
// @Summary Reset course progress
// @Tags progress
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses/progress/{courseId} [delete]
func (pc *ProgressController) DeleteCourseProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	deleted, err := pc.Progress.DeleteCourse(c.UserContext(), user.ID, c.Params("courseId"))
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, fiber.Map{"deleted": deleted})
}

// GetCourseStats godoc
// @Summary Course statistics
// @Tags stats
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse{data=models.CourseStats}
// @Security ApiKeyAuth
// @Router /courses/stats/{courseId} [get]
func (pc *ProgressController) GetCourseStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	stats, err := pc.Progress.CourseStats(c.UserContext(), user.ID, c.Params("courseId"))
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, stats)
}

// GetUserStats godoc
// @Summary User statistics
// @Tags stats
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=models.UserStats}
// @Security ApiKeyAuth
// @Router /courses/stats/user/overview [get]
func (pc *ProgressController) GetUserStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	stats, err := pc.Progress.UserStats(c.UserContext(), user.ID)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, fiber.Map{
		"stats":      stats,
		"experience": user.Experience,
	})
}

// GetLeaderboard godoc
// @Summary Leaderboard
// @Description Global ranking, or the ranking within one course
// @Tags stats
// @Produce json
// @Param courseId path string false "Course ID"
// @Param limit query int false "Maximum entries (default 10, at most 100)"
// @Success 200 {object} utils.SuccessResponse{data=[]models.LeaderboardEntry}
// @Security ApiKeyAuth
// @Router /courses/leaderboard/{courseId} [get]
func (pc *ProgressController) GetLeaderboard(c *fiber.Ctx) error {
	board, err := pc.Progress.Leaderboard(c.UserContext(), c.Params("courseId"), c.QueryInt("limit", services.DefaultLeaderboardLimit))
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, board)
}

// CompleteCourse godoc
// @Summary Complete a course
// @Description Grants the completion reward once every challenge of the course is completed
// @Tags progress
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse{data=services.CourseCompletion}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/complete/{courseId} [post]
func (pc *ProgressController) CompleteCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	res, err := pc.Progress.CompleteCourse(c.UserContext(), user.ID, c.Params("courseId"))
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, res, "Course completed")
}
