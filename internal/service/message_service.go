package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

// FeedLimit is the maximum number of warbles returned by a feed read.
const FeedLimit = 100

// MessageService provides warble and like business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

// Create validates the text and persists a new warble for the user.
func (s *MessageService) Create(ctx context.Context, userID uint, text string) (*models.Message, error) {
	if err := validation.ValidateWarbleText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	message := &models.Message{
		Text:   text,
		UserID: userID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return s.messageRepo.GetByID(ctx, message.ID, userID)
}

// Get returns a single warble with like details for the current user.
func (s *MessageService) Get(ctx context.Context, messageID, currentUserID uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, messageID, currentUserID)
}

// Delete removes the warble. Only the owner may delete it.
func (s *MessageService) Delete(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID, userID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return models.NewForbiddenError("You can only delete your own warbles")
	}
	return s.messageRepo.Delete(ctx, messageID)
}

// ToggleLike flips the like-edge for (user, message) and reports the resulting
// state. Liking your own warble is rejected and never creates an edge.
func (s *MessageService) ToggleLike(ctx context.Context, userID, messageID uint) (liked bool, msg *models.Message, err error) {
	message, err := s.messageRepo.GetByID(ctx, messageID, userID)
	if err != nil {
		return false, nil, err
	}
	if message.UserID == userID {
		return false, nil, models.NewForbiddenError("You cannot like your own warble")
	}

	already, err := s.messageRepo.IsLiked(ctx, userID, messageID)
	if err != nil {
		return false, nil, err
	}

	if already {
		if err := s.messageRepo.Unlike(ctx, userID, messageID); err != nil {
			return false, nil, err
		}
		liked = false
	} else {
		if err := s.messageRepo.Like(ctx, userID, messageID); err != nil {
			return false, nil, err
		}
		liked = true
	}

	msg, err = s.messageRepo.GetByID(ctx, messageID, userID)
	if err != nil {
		return liked, nil, err
	}
	return liked, msg, nil
}

// Feed returns the newest warbles from the user and everyone they follow.
func (s *MessageService) Feed(ctx context.Context, userID uint) ([]*models.Message, error) {
	return s.messageRepo.Feed(ctx, userID, FeedLimit)
}

// MessagesByUser returns a user's own warbles, newest first. Fails with
// NotFound if the user does not exist.
func (s *MessageService) MessagesByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// LikedMessages returns the warbles a user has liked. Fails with NotFound if
// the user does not exist.
func (s *MessageService) LikedMessages(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.LikedByUser(ctx, userID, limit, offset)
}
