package service

import (
	"context"
	"errors"

	"github.com/your-org/miniapp-backend/internal/auth"
	"github.com/your-org/miniapp-backend/internal/features/user/models"
	"github.com/your-org/miniapp-backend/internal/features/user/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.UserResponse, error)
	// GetOrCreateUser resolves the verified identity to an internal user
	// record, creating or refreshing it as needed. The second return value
	// reports whether the record was created by this call.
	GetOrCreateUser(ctx context.Context, identity *auth.User) (*models.UserResponse, bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) GetOrCreateUser(ctx context.Context, identity *auth.User) (*models.UserResponse, bool, error) {
	user, err := s.repo.GetByID(ctx, identity.ID)
	if err == nil {
		// Debug-bypass identities carry no claim payload; never let them
		// blank out real display fields.
		if identity.Raw != nil && !displayFieldsEqual(user, identity) {
			user.Username = identity.Username
			user.FirstName = identity.FirstName
			user.LastName = identity.LastName
			user.LanguageCode = identity.LanguageCode
			if err := s.repo.Update(ctx, user); err != nil {
				return nil, false, err
			}
		}
		return toUserResponse(user), false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, err
	}

	newUser := &models.User{
		ID:           identity.ID,
		Username:     identity.Username,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		LanguageCode: identity.LanguageCode,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, false, err
	}
	return toUserResponse(newUser), true, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]*models.UserResponse, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	return responses, nil
}

func displayFieldsEqual(user *models.User, identity *auth.User) bool {
	return user.Username == identity.Username &&
		user.FirstName == identity.FirstName &&
		user.LastName == identity.LastName &&
		user.LanguageCode == identity.LanguageCode
}

func toUserResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		LanguageCode: user.LanguageCode,
		CreatedAt:    user.CreatedAt,
	}
}
