package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
	"github.com/Muhammad-Huzaifa24/backend-PMS/repositories"
)

type UserService struct {
	users  repositories.UserRepository
	tokens *TokenService
}

func NewUserService(users repositories.UserRepository, tokens *TokenService) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register creates a user with a bcrypt-hashed password. Email is unique;
// role is fixed for the lifetime of the account.
func (s *UserService) Register(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	if name == "" || email == "" || password == "" || role == "" {
		return nil, models.NewError(models.ErrCodeInvalid, "all fields are required")
	}
	if !role.Valid() {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid role")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrUserAlreadyExists
	} else if !models.IsCode(err, models.ErrCodeNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.WrapError(models.ErrCodeStorage, "failed to hash password", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login verifies credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, models.NewError(models.ErrCodeInvalid, "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, models.NewError(models.ErrCodeInvalid, "invalid credentials")
	}

	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, pair, nil
}

// Logout clears the stored refresh token so it can no longer be rotated.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return s.users.SetRefreshToken(ctx, userID, "")
}

// GetAll returns every non-Manager user, credentials stripped.
func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListNonManagers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, models.NewError(models.ErrCodeNotFound, "no users")
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewError(models.ErrCodeInvalid, "invalid user ID format")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}
