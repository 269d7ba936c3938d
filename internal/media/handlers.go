package media

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireLogin fiber.Handler) {
	r.Post("/upload", requireLogin, func(c *fiber.Ctx) error {
		header, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "image is required")
		}
		path, err := svc.SaveImage(header)
		if errors.Is(err, ErrTooLarge) || errors.Is(err, ErrInvalidType) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image": path})
	})
}
