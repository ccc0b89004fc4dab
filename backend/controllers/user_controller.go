package controllers

import (
	"strconv"

	"skillpractice/backend/middleware"
	"skillpractice/backend/services"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// UserController serves the admin user management endpoints.
type UserController struct {
	Accounts *services.AccountService
	Log      *utils.Logger
}

func NewUserController(accounts *services.AccountService, log *utils.Logger) *UserController {
	return &UserController{Accounts: accounts, Log: log}
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32" example:"john_doe"`
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret1"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin" example:"user" enums:"user,admin"`
}

type UpdateUserRequest struct {
	Username string `json:"username" validate:"omitempty,min=3,max=32" example:"john_doe"`
	Email    string `json:"email" validate:"omitempty,email" example:"user@example.com"`
	Password string `json:"password" validate:"omitempty,min=6" example:"secret1"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin" enums:"user,admin"`
	IsActive *bool  `json:"isActive"`
}

type BulkDeleteRequest struct {
	UserIDs []uint `json:"userIds" validate:"required,min=1"`
}

func userIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]models.User}
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users [get]
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := uc.Accounts.List(c.UserContext())
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.OK(c, fiber.Map{"users": users, "total": len(users)})
}

// GetUser godoc
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponse{data=models.User}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, ok := userIDParam(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user ID")
	}
	user, err := uc.Accounts.Get(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.OK(c, fiber.Map{"user": user})
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param input body CreateUserRequest true "Account data"
// @Success 201 {object} utils.SuccessResponse{data=models.User}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users [post]
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var input CreateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user, err := uc.Accounts.Create(c.UserContext(), services.NewAccount{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Created(c, fiber.Map{"user": user}, "User created")
}

// UpdateUser godoc
// @Summary Update user
// @Description Partial update; omitted fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body UpdateUserRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse{data=models.User}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, ok := userIDParam(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input UpdateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user, err := uc.Accounts.Update(c.UserContext(), id, services.AccountChanges{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		IsActive: input.IsActive,
	})
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.OK(c, fiber.Map{"user": user}, "User updated")
}

// DeleteUser godoc
// @Summary Delete user
// @Description Deletes the account and its progress. Admins cannot delete themselves.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, ok := userIDParam(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user ID")
	}
	actor := middleware.CurrentUser(c)
	if err := uc.Accounts.Delete(c.UserContext(), actor.ID, id); err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.OK(c, nil, "User deleted")
}

// DeleteUsers godoc
// @Summary Bulk delete users
// @Tags users
// @Accept json
// @Produce json
// @Param input body BulkDeleteRequest true "User IDs"
// @Success 200 {object} utils.SuccessResponse{data=services.BulkDeleteResult}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users [delete]
func (uc *UserController) DeleteUsers(c *fiber.Ctx) error {
	var input BulkDeleteRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	actor := middleware.CurrentUser(c)
	res, err := uc.Accounts.DeleteMany(c.UserContext(), actor.ID, input.UserIDs)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.OK(c, res, "Users deleted")
}
