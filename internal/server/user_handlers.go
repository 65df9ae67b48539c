package server

import (
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the request body for editing the caller's profile.
// Password must match the account's current password. Omitted fields stay
// unchanged; fields sent as empty strings are cleared.
type UpdateProfileRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	ImageURL       *string `json:"image_url"`
	HeaderImageURL *string `json:"header_image_url"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	Password       string  `json:"password"`
}

// ListUsers returns all users, or the ones whose username contains the
// case-insensitive q query parameter.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.userService.SearchUsers(c.UserContext(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetUser returns a user's profile together with counts for their profile page.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	currentUserID := c.Locals("userID").(uint)
	following := false
	if currentUserID != user.ID {
		following, err = s.followService.IsFollowing(c.UserContext(), currentUserID, user.ID)
		if err != nil {
			return respondAppError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"user":         user,
		"is_following": following,
	})
}

// GetFollowing returns the users the given user follows.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.followService.Following(c.UserContext(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetFollowers returns the users following the given user.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.followService.Followers(c.UserContext(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetUserLikes returns the warbles the given user has liked.
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	messages, err := s.messageService.LikedMessages(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// GetUserMessages returns the given user's own warbles, newest first.
func (s *Server) GetUserMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	currentUserID := c.Locals("userID").(uint)
	p := parsePagination(c, 50)
	messages, err := s.messageService.MessagesByUser(c.UserContext(), id, p.Limit, p.Offset, currentUserID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// UpdateMyProfile edits the caller's profile after re-verifying their password.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:          userID,
		Username:        req.Username,
		Email:           req.Email,
		ImageURL:        req.ImageURL,
		HeaderImageURL:  req.HeaderImageURL,
		Bio:             req.Bio,
		Location:        req.Location,
		ConfirmPassword: req.Password,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "profile updated", "user_id", user.ID)
	return c.JSON(fiber.Map{"user": user})
}

// DeleteMyAccount removes the caller's account, their warbles, likes and
// follow edges in both directions.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.userService.DeleteAccount(c.UserContext(), userID); err != nil {
		return respondAppError(c, err)
	}

	// The account is gone; its session must not outlive it.
	s.revokeCurrentToken(c)

	middleware.Logger.InfoContext(c.UserContext(), "account deleted", "user_id", userID)
	return c.JSON(fiber.Map{"message": "Account deleted"})
}

// FollowUser adds a follow edge from the caller to the target user.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.UserContext(), userID, targetID); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"following": true})
}

// UnfollowUser removes the caller's follow edge to the target user.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), userID, targetID); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"following": false})
}
