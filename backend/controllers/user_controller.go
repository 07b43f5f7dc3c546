package controllers

import (
	"strings"

	"eduquiz/backend/middleware"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct {
	Store *store.Store
}

func NewUserController(st *store.Store) *UserController {
	return &UserController{Store: st}
}

type UpdateProfileRequest struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"omitempty,min=8"`
}

// UpdateProfile changes the caller's name, avatar or password. Changing the
// password requires the current one.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var input UpdateProfileRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	user, err := uc.Store.UserByID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, err, "User not found")
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.BadRequest(c, "Old password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.Store.SaveUser(c.UserContext(), user); err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}
	return utils.Message(c, fiber.StatusOK, "Profile updated", userView(user))
}
