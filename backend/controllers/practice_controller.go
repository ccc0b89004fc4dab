package controllers

import (
	"skillpractice/backend/middleware"
	"skillpractice/backend/services"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type PracticeController struct {
	Practice *services.PracticeService
	Log      *utils.Logger
}

func NewPracticeController(practice *services.PracticeService, log *utils.Logger) *PracticeController {
	return &PracticeController{Practice: practice, Log: log}
}

type CompleteSessionRequest struct {
	NewCourseIDs []string `json:"newCourseIds"`
	ReviewCount  int      `json:"reviewCount" validate:"gte=0" example:"4"`
	NewCount     int      `json:"newCount" validate:"gte=0" example:"3"`
}

// Generate godoc
// @Summary Generate a smart practice session
// @Description Mixes challenges of up to two completed courses with the next unfinished course
// @Tags smart-practice
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=models.PracticeSession}
// @Security ApiKeyAuth
// @Router /smart-practice/generate [post]
func (pc *PracticeController) Generate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	session, err := pc.Practice.Generate(c.UserContext(), user.ID)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, session)
}

// Complete godoc
// @Summary Complete a smart practice session
// @Description Marks the new courses completed and grants the session reward
// @Tags smart-practice
// @Accept json
// @Produce json
// @Param input body CompleteSessionRequest true "Session result"
// @Success 200 {object} utils.SuccessResponse{data=services.SessionReport}
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /smart-practice/complete [post]
func (pc *PracticeController) Complete(c *fiber.Ctx) error {
	var input CompleteSessionRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user := middleware.CurrentUser(c)
	report, err := pc.Practice.Complete(c.UserContext(), user.ID, services.SessionResult{
		NewCourseIDs: input.NewCourseIDs,
		ReviewCount:  input.ReviewCount,
		NewCount:     input.NewCount,
	})
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.OK(c, report, "Practice session completed")
}
