package controllers

import (
	"log"

	"eduquiz/backend/thumbnails"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ThumbnailsController struct {
	Service *thumbnails.Service
	Logger  *log.Logger
}

func NewThumbnailsController(svc *thumbnails.Service, logger *log.Logger) *ThumbnailsController {
	return &ThumbnailsController{Service: svc, Logger: logger}
}

// Suggest returns cover images for a course title. A failed search falls
// back to the stock images.
func (tc *ThumbnailsController) Suggest(c *fiber.Ctx) error {
	photos, cached, err := tc.Service.Suggest(c.UserContext(), c.Query("query"), c.QueryInt("limit", thumbnails.DefaultLimit))
	if err != nil {
		tc.Logger.Printf("thumbnail search: %v", err)
		return utils.Success(c, fiber.StatusOK, thumbnails.Defaults, fiber.Map{"fallback": true})
	}
	return utils.Success(c, fiber.StatusOK, photos, fiber.Map{"cached": cached})
}
