package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserStore
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		err = s.userRepo.Update(ctx, existingUser)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

// SetLocale сохраняет выбранный пользователем язык
func (s *UserService) SetLocale(ctx context.Context, telegramID int64, locale model.Locale) error {
	if !locale.IsValid() {
		return fmt.Errorf("unsupported locale %q", locale)
	}

	if err := s.userRepo.UpsertLocale(ctx, telegramID, locale); err != nil {
		return err
	}

	s.logger.Info("User locale changed",
		zap.Int64("telegram_id", telegramID),
		zap.String("locale", string(locale)),
	)
	return nil
}

// GetLocale выбранный пользователем язык. ErrNotFound, если язык не выбирался.
func (s *UserService) GetLocale(ctx context.Context, telegramID int64) (model.Locale, error) {
	user, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	if user == nil || user.Locale == "" {
		return "", model.ErrNotFound
	}

	return user.Locale, nil
}
