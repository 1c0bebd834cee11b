package auth

import (
	"context"
	"testing"

	"deployhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mock user repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

// Mock session notifier
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Publish(userID int64, event SessionEvent) bool {
	args := m.Called(userID, event)
	return args.Bool(0)
}

func TestService_Register_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	notifier := new(mockNotifier)

	userRepo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	jwtSvc.On("GenerateToken", mock.Anything, "test@example.com").Return("fake-jwt-token", nil)
	notifier.On("Publish", mock.Anything, mock.MatchedBy(func(e SessionEvent) bool {
		return e.Event == EventSignedIn
	})).Return(true)

	service := NewService(userRepo, jwtSvc, notifier)

	user, token, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "securepass123",
	})

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "fake-jwt-token", token)
	assert.Empty(t, user.PasswordHash)

	userRepo.AssertExpectations(t)
	jwtSvc.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestService_Register_EmailExists(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	notifier := new(mockNotifier)

	userRepo.On("ExistsByEmail", mock.Anything, "exists@example.com").Return(true, nil)

	service := NewService(userRepo, jwtSvc, notifier)

	_, _, err := service.Register(context.Background(), RegisterRequest{
		Email: "exists@example.com",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	userRepo.AssertNotCalled(t, "Create")
}

func TestService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	notifier := new(mockNotifier)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	existingUser := &domain.User{
		ID:           10,
		Email:        "user@example.com",
		PasswordHash: string(hashed),
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existingUser, nil)
	jwtSvc.On("GenerateToken", int64(10), "user@example.com").Return("login-token", nil)
	notifier.On("Publish", int64(10), mock.Anything).Return(true)

	service := NewService(userRepo, jwtSvc, notifier)

	user, token, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "login-token", token)
	assert.Empty(t, user.PasswordHash)
}

func TestService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	notifier := new(mockNotifier)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	existingUser := &domain.User{ID: 10, Email: "user@example.com", PasswordHash: string(hashed)}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existingUser, nil)

	service := NewService(userRepo, jwtSvc, notifier)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	jwtSvc.AssertNotCalled(t, "GenerateToken")
	notifier.AssertNotCalled(t, "Publish")
}

func TestService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	notifier := new(mockNotifier)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(userRepo, jwtSvc, notifier)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Logout_PublishesSignedOut(t *testing.T) {
	userRepo := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	notifier := new(mockNotifier)

	notifier.On("Publish", int64(5), mock.MatchedBy(func(e SessionEvent) bool {
		return e.Event == EventSignedOut && e.Email == "user@example.com"
	})).Return(true)

	service := NewService(userRepo, jwtSvc, notifier)
	service.Logout(5, "user@example.com")

	notifier.AssertExpectations(t)
}
