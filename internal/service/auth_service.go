package service

import (
	"context"
	"errors"
	"strings"

	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"
	"agriconnect-api/pkg/jwt"
	"agriconnect-api/pkg/validator"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, in SignupInput) (*AuthResponse, error)
	Login(ctx context.Context, username, password string) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*jwt.Pair, error)
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

type SignupInput struct {
	Username    string `json:"username" validate:"required,max=150"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phone_number" validate:"max=15"`
	Location    string `json:"location" validate:"max=255"`
	IsFarmer    bool   `json:"is_farmer"`
	IsBuyer     bool   `json:"is_buyer"`
}

// AuthResponse is the profile plus a fresh token pair.
type AuthResponse struct {
	User model.UserResponse `json:"user"`
	*jwt.Pair
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, in SignupInput) (*AuthResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if errs := validator.ValidateStruct(&in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}

	user := &model.User{
		Username:    in.Username,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Location:    strings.TrimSpace(in.Location),
		IsFarmer:    in.IsFarmer,
		IsBuyer:     in.IsBuyer,
	}
	user.CreatedBy = "signup"
	user.UpdatedBy = "signup"
	if err := user.SetPassword(in.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup can claim the name between the check and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Str("capability", string(user.Capability())).Msg("account registered")
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return s.respond(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*jwt.Pair, error) {
	claims, err := s.tokens.Validate(refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.tokens.IssuePair(user.ID, user.Username)
}

// Authenticate resolves an access token to the current account record.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.tokens.Validate(accessToken, jwt.AccessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) respond(user *model.User) (*AuthResponse, error) {
	pair, err := s.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	return &AuthResponse{User: user.ToResponse(), Pair: pair}, nil
}
