package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"wp-dispatch/eventbus"
	"wp-dispatch/events"
	"wp-dispatch/logger"
	"wp-dispatch/models"
	"wp-dispatch/repositories"
)

// webhook 경로는 gin binding 을 거치지 않으므로 같은 규칙으로 직접 검사한다.
var validate = validator.New()

type UserService struct {
	users  repositories.UserRepository
	bus    eventbus.EventBus
	topics eventbus.Topics
}

func NewUserService(users repositories.UserRepository, bus eventbus.EventBus, topics eventbus.Topics) *UserService {
	return &UserService{users: users, bus: bus, topics: topics}
}

type CreateUserInput struct {
	Name         string
	LastName     string
	Email        string
	WritingStyle string
}

// ExternalUser is a user as described by the identity provider.
type ExternalUser struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByExternalID 는 세션 토큰의 sub 로 로컬 사용자를 찾는다.
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.users.GetByExternalID(ctx, externalID)
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	email, err := normalizeEmail(in.Email, true)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		WritingStyle: strings.TrimSpace(in.WritingStyle),
	}
	if u.Name == "" {
		return nil, validationError("name is required")
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("email %s is already registered: %w", email, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email, true)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, validationError("name cannot be empty")
	}
	u, err := s.users.Update(ctx, id, patch)
	if errors.Is(err, repositories.ErrConflict) {
		return nil, fmt.Errorf("email is already registered: %w", err)
	}
	return u, err
}

// Delete removes the user together with every blog they own.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, events.UserDeleted, u)
	return nil
}

// SyncExternal creates or updates the local user for an identity provider user.
func (s *UserService) SyncExternal(ctx context.Context, ext ExternalUser) (*models.User, error) {
	if ext.ID == "" {
		return nil, validationError("external user id is required")
	}
	email, err := normalizeEmail(ext.Email, false)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByExternalID(ctx, ext.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		u := &models.User{
			ExternalID: ext.ID,
			Name:       strings.TrimSpace(ext.FirstName),
			LastName:   strings.TrimSpace(ext.LastName),
			Email:      email,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create external user: %w", err)
		}
		s.emit(ctx, events.UserSynced, u)
		return u, nil
	case err != nil:
		return nil, err
	}

	name, last := strings.TrimSpace(ext.FirstName), strings.TrimSpace(ext.LastName)
	u, err := s.users.Update(ctx, existing.ID, models.UserPatch{Name: &name, LastName: &last, Email: &email})
	if err != nil {
		return nil, fmt.Errorf("update external user: %w", err)
	}
	s.emit(ctx, events.UserSynced, u)
	return u, nil
}

// DeleteExternal removes the local user linked to externalID, if any.
func (s *UserService) DeleteExternal(ctx context.Context, externalID string) error {
	u, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, u.ID)
}

func (s *UserService) emit(ctx context.Context, t events.EventType, u *models.User) {
	evt := events.UserEvent{
		BaseEvent:  events.NewBaseEvent(t, eventSource),
		UserID:     u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
	}
	eventbus.PublishJSON(ctx, s.bus, s.topics.Users, evt.ID, string(t), evt)
	logger.InfoWithFields("user "+string(t), logger.Fields{"user_id": u.ID})
}

func normalizeEmail(raw string, required bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return "", validationError("email is required")
		}
		return "", nil
	}
	if err := validate.Var(raw, "email"); err != nil {
		return "", validationError("email %q is invalid", raw)
	}
	return strings.ToLower(raw), nil
}
