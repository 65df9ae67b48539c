package server

import (
	"warbler/internal/middleware"
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateMessageRequest is the request body for posting a warble.
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// GetFeed returns the home timeline. Authenticated callers get the newest
// warbles from themselves and everyone they follow; anonymous callers get the
// landing payload instead.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID, ok := s.optionalUserID(c)
	if !ok {
		return c.JSON(fiber.Map{
			"authenticated": false,
			"messages":      []*models.Message{},
		})
	}

	messages, err := s.messageService.Feed(c.UserContext(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
		"messages":      messages,
	})
}

// CreateMessage posts a new warble for the caller.
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.Create(c.UserContext(), userID, req.Text)
	if err != nil {
		return respondAppError(c, err)
	}

	middleware.WarblesCreated.Inc()
	middleware.Logger.InfoContext(c.UserContext(), "warble created",
		"message_id", message.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

// GetMessage returns a single warble.
func (s *Server) GetMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.messageService.Get(c.UserContext(), id, userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

// DeleteMessage removes one of the caller's own warbles.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.messageService.Delete(c.UserContext(), userID, id); err != nil {
		return respondAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "warble deleted", "message_id", id)
	return c.JSON(fiber.Map{"message": "Warble deleted"})
}

// ToggleLike flips the caller's like on a warble and returns the new state.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, message, err := s.messageService.ToggleLike(c.UserContext(), userID, id)
	if err != nil {
		return respondAppError(c, err)
	}

	result := "unliked"
	if liked {
		result = "liked"
	}
	middleware.LikeToggles.WithLabelValues(result).Inc()

	return c.JSON(fiber.Map{
		"liked":   liked,
		"message": message,
	})
}
