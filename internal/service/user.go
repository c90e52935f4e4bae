package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance-report/internal/models"
	"attendance-report/internal/repository"

	"github.com/sirupsen/logrus"
)

var ErrUnknownTimezone = errors.New("unknown timezone")

type UserService struct {
	repo   repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Register returns the user of a chat, creating a client on first contact.
func (s *UserService) Register(ctx context.Context, chatID int64, username, firstName string) (*models.User, error) {
	user, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	if firstName == "" {
		firstName = username
	}
	user = &models.User{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
		Role:      models.RoleClient,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id":  chatID,
		"username": username,
	}).Info("User registered")
	return user, nil
}

func (s *UserService) IsAdmin(ctx context.Context, chatID int64) (bool, error) {
	user, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return false, err
	}

	return user != nil && user.IsAdmin(), nil
}

// InitializeAdmin makes the configured chat an admin. Zero means none configured.
func (s *UserService) InitializeAdmin(ctx context.Context, adminChatID int64) error {
	if adminChatID == 0 {
		return nil
	}

	existing, err := s.repo.GetByChatID(ctx, adminChatID)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.IsAdmin() {
			return nil
		}
		existing.Role = models.RoleAdmin
		return s.repo.Update(ctx, existing)
	}

	return s.repo.Create(ctx, &models.User{
		ChatID:    adminChatID,
		Username:  "admin",
		FirstName: "Administrador",
		Role:      models.RoleAdmin,
	})
}

// SetTimezone stores the IANA zone reports requested by this user are computed in.
// An empty name clears it.
func (s *UserService) SetTimezone(ctx context.Context, chatID int64, name string) (*models.User, error) {
	if name != "" {
		if _, err := time.LoadLocation(name); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, name)
		}
	}

	user, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user with chat %d not found", chatID)
	}

	user.Timezone = name
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
