package controllers

import (
	"errors"
	"strings"

	"eduquiz/backend/config"
	"eduquiz/backend/middleware"
	"eduquiz/backend/models"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewAuthController(st *store.Store, cfg *config.Config) *AuthController {
	return &AuthController{Store: st, Cfg: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=teacher student"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a teacher or student account and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	if input.Role == "" {
		input.Role = models.RoleStudent
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}
	if err := ac.Store.CreateUser(c.UserContext(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return utils.Conflict(c, "Email is already registered")
		}
		return utils.InternalServerError(c, "Could not create user")
	}

	return ac.issueToken(c, fiber.StatusCreated, &user)
}

// Login godoc
// @Summary User login
// @Description Authenticate by email and password and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	user, err := ac.Store.UserByEmail(c.UserContext(), input.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	return ac.issueToken(c, fiber.StatusOK, user)
}

// Me returns the authenticated user.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.Store.UserByID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, userView(user))
}

func (ac *AuthController) issueToken(c *fiber.Ctx, status int, user *models.User) error {
	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.Success(c, status, fiber.Map{
		"token": token,
		"user":  userView(user),
	})
}
