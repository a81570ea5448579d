package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"go.uber.org/zap"
)

// UserService ведёт учётные записи из Telegram: ученики по умолчанию, учителя по запросу
type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// RegisterUser создаёт пользователя при первом /start и обновляет профиль при повторных
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		user = &model.User{TelegramID: telegramID}
		user.Username, user.FirstName, user.LastName, user.LanguageCode = username, firstName, lastName, languageCode

		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.logger.Info("New user registered",
			zap.Int64("user_id", user.ID),
			zap.Int64("telegram_id", telegramID),
		)
		return user, nil
	}

	// таймзона и роль при повторной регистрации не меняются
	user.Username, user.FirstName, user.LastName, user.LanguageCode = username, firstName, lastName, languageCode
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// SetTimezone сохраняет часовой пояс пользователя, в нём показываются даты занятий
func (s *UserService) SetTimezone(ctx context.Context, telegramID int64, timezone string) error {
	if _, err := time.LoadLocation(timezone); timezone == "" || err != nil {
		return invalid("Неизвестный часовой пояс, пример: Europe/Moscow")
	}

	user, err := s.modify(ctx, telegramID, func(u *model.User) { u.Timezone = timezone })
	if err != nil {
		return err
	}

	s.logger.Info("User timezone changed",
		zap.Int64("user_id", user.ID),
		zap.String("timezone", timezone),
	)
	return nil
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}

// MakeTeacher даёт пользователю право вести расписание
func (s *UserService) MakeTeacher(ctx context.Context, telegramID int64) error {
	user, err := s.modify(ctx, telegramID, func(u *model.User) { u.IsTeacher = true })
	if err != nil {
		return err
	}

	s.logger.Info("User became teacher", zap.Int64("user_id", user.ID))
	return nil
}

func (s *UserService) modify(ctx context.Context, telegramID int64, apply func(*model.User)) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", telegramID, ErrNotFound)
	}

	apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
