package service

import (
	"context"

	"warbler/internal/models"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteCascadeFn func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	searchFn        func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) DeleteCascade(ctx context.Context, id uint) error {
	return s.deleteCascadeFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, q, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		deleteCascadeFn: func(context.Context, uint) error { return nil },
		listFn:          func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		searchFn:        func(context.Context, string, int, int) ([]models.User, error) { return nil, nil },
	}
}

type messageRepoStub struct {
	createFn      func(context.Context, *models.Message) error
	getByIDFn     func(context.Context, uint, uint) (*models.Message, error)
	getByUserIDFn func(context.Context, uint, int, int, uint) ([]*models.Message, error)
	feedFn        func(context.Context, uint, int) ([]*models.Message, error)
	likedByUserFn func(context.Context, uint, int, int) ([]*models.Message, error)
	deleteFn      func(context.Context, uint) error
	isLikedFn     func(context.Context, uint, uint) (bool, error)
	likeFn        func(context.Context, uint, uint) error
	unlikeFn      func(context.Context, uint, uint) error
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *messageRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *messageRepoStub) Feed(ctx context.Context, userID uint, limit int) ([]*models.Message, error) {
	return s.feedFn(ctx, userID, limit)
}
func (s *messageRepoStub) LikedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	return s.likedByUserFn(ctx, userID, limit, offset)
}
func (s *messageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *messageRepoStub) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, messageID)
}
func (s *messageRepoStub) Like(ctx context.Context, userID, messageID uint) error {
	return s.likeFn(ctx, userID, messageID)
}
func (s *messageRepoStub) Unlike(ctx context.Context, userID, messageID uint) error {
	return s.unlikeFn(ctx, userID, messageID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn: func(context.Context, *models.Message) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Message, error) {
			return &models.Message{ID: id}, nil
		},
		getByUserIDFn: func(context.Context, uint, int, int, uint) ([]*models.Message, error) { return nil, nil },
		feedFn:        func(context.Context, uint, int) ([]*models.Message, error) { return nil, nil },
		likedByUserFn: func(context.Context, uint, int, int) ([]*models.Message, error) { return nil, nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		isLikedFn:     func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:        func(context.Context, uint, uint) error { return nil },
		unlikeFn:      func(context.Context, uint, uint) error { return nil },
	}
}

type followRepoStub struct {
	addFn         func(context.Context, uint, uint) error
	removeFn      func(context.Context, uint, uint) error
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	followingFn   func(context.Context, uint) ([]models.User, error)
	followersFn   func(context.Context, uint) ([]models.User, error)
}

func (s *followRepoStub) Add(ctx context.Context, followerID, followeeID uint) error {
	return s.addFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Remove(ctx context.Context, followerID, followeeID uint) error {
	return s.removeFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		addFn:         func(context.Context, uint, uint) error { return nil },
		removeFn:      func(context.Context, uint, uint) error { return nil },
		isFollowingFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		followingFn:   func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followersFn:   func(context.Context, uint) ([]models.User, error) { return nil, nil },
	}
}
