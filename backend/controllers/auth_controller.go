package controllers

import (
	"skillpractice/backend/config"
	"skillpractice/backend/middleware"
	"skillpractice/backend/models"
	"skillpractice/backend/services"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Accounts *services.AccountService
	Cfg      *config.Config
	Log      *utils.Logger
}

func NewAuthController(accounts *services.AccountService, cfg *config.Config, log *utils.Logger) *AuthController {
	return &AuthController{Accounts: accounts, Cfg: cfg, Log: log}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=32" example:"john_doe"`
	Email           string `json:"email" validate:"required,email" example:"user@example.com"`
	Password        string `json:"password" validate:"required,min=6" example:"secret1"`
	ConfirmPassword string `json:"confirmPassword" validate:"required" example:"secret1"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"john_doe"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new account with the user role and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} utils.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user, err := ac.Accounts.Register(c.UserContext(), services.Registration{
		Username:        input.Username,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}

	token, err := utils.GenerateJWTToken(user, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.Created(c, AuthResponse{Token: token, User: user}, "Registration successful")
}

// Login godoc
// @Summary User login
// @Description Authenticates by username or email and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	user, err := ac.Accounts.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}

	token, err := utils.GenerateJWTToken(user, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.OK(c, AuthResponse{Token: token, User: user}, "Login successful")
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=models.User}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	return utils.OK(c, fiber.Map{"user": middleware.CurrentUser(c)})
}

// Refresh godoc
// @Summary Refresh token
// @Description Issues a fresh token for the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/refresh [post]
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	token, err := utils.GenerateJWTToken(user, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.OK(c, AuthResponse{Token: token, User: user}, "Token refreshed")
}

// CheckUsername godoc
// @Summary Username availability
// @Tags auth
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} utils.SuccessResponse
// @Router /auth/check-username/{username} [get]
func (ac *AuthController) CheckUsername(c *fiber.Ctx) error {
	ok, err := ac.Accounts.UsernameAvailable(c.UserContext(), c.Params("username"))
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.OK(c, fiber.Map{"available": ok})
}

// CheckEmail godoc
// @Summary Email availability
// @Tags auth
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} utils.SuccessResponse
// @Router /auth/check-email/{email} [get]
func (ac *AuthController) CheckEmail(c *fiber.Ctx) error {
	ok, err := ac.Accounts.EmailAvailable(c.UserContext(), c.Params("email"))
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.OK(c, fiber.Map{"available": ok})
}
