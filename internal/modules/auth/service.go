package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"deployhub/internal/domain"
	"deployhub/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, email string) (string, error)
}

type sessionNotifier interface {
	Publish(userID int64, event SessionEvent) bool
}

// Service contains all business logic for authentication
type Service struct {
	users  UserRepositoryInterface
	jwt    jwtService
	events sessionNotifier
}

func NewService(users UserRepositoryInterface, jwt jwtService, events sessionNotifier) *Service {
	return &Service{
		users:  users,
		jwt:    jwt,
		events: events,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.notify(user, EventSignedIn)
	user.PasswordHash = ""
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.notify(user, EventSignedIn)
	user.PasswordHash = ""
	return user, token, nil
}

// Logout only emits the session-change event. Access tokens are stateless
// and expire on their own.
func (s *Service) Logout(userID int64, email string) {
	if s.events != nil {
		s.events.Publish(userID, SessionEvent{Event: EventSignedOut, Email: email, At: time.Now()})
	}
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) notify(user *domain.User, event string) {
	if s.events != nil {
		s.events.Publish(user.ID, SessionEvent{Event: event, Email: user.Email, At: time.Now()})
	}
}
