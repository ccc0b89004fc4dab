package controllers

import (
	"skillpractice/backend/catalog"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// CoursesController serves the read-only catalog.
type CoursesController struct {
	Catalog *catalog.Catalog
	Log     *utils.Logger
}

func NewCoursesController(cat *catalog.Catalog, log *utils.Logger) *CoursesController {
	return &CoursesController{Catalog: cat, Log: log}
}

// ListCourses godoc
// @Summary List courses
// @Description Returns the course catalog in its configured order
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]models.Course}
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	return utils.OK(c, cc.Catalog.Courses())
}

// GetCourse godoc
// @Summary Get course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse{data=models.Course}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{courseId} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	course, ok := cc.Catalog.Find(c.Params("courseId"))
	if !ok {
		return utils.NotFound(c, "Course not found")
	}
	return utils.OK(c, course)
}

// ReloadCatalog godoc
// @Summary Reload the catalog
// @Description Re-reads the catalog source. On error the current catalog stays in place.
// @Tags admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/catalog/reload [post]
func (cc *CoursesController) ReloadCatalog(c *fiber.Ctx) error {
	if err := cc.Catalog.Reload(); err != nil {
		cc.Log.Warn("Catalog reload failed", "source", cc.Catalog.Source(), "error", err)
		return utils.Error(c, fiber.StatusBadRequest, "Catalog reload failed", err.Error())
	}
	cc.Log.Info("Catalog reloaded", "source", cc.Catalog.Source(), "courses", cc.Catalog.Len())
	return utils.OK(c, fiber.Map{
		"source":  cc.Catalog.Source(),
		"courses": cc.Catalog.Len(),
	}, "Catalog reloaded")
}
