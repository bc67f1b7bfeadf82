package service

import (
	"context"
	"errors"
	"strings"

	"agriconnect-api/internal/model"
	"agriconnect-api/internal/repository"
	"agriconnect-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, viewer *model.User, id uuid.UUID, in UpdateProfileInput) (*model.User, error)
	Dashboard(ctx context.Context, viewer *model.User) (*Dashboard, error)
}

type UpdateProfileInput struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	IsFarmer    *bool   `json:"is_farmer"`
	IsBuyer     *bool   `json:"is_buyer"`
}

type Dashboard struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	IsFarmer      bool   `json:"is_farmer"`
	IsBuyer       bool   `json:"is_buyer"`
	Location      string `json:"location"`
	ProductsCount int64  `json:"products_count"`
	OrdersCount   int64  `json:"orders_count"`
}

type userService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewUserService(userRepo repository.UserRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// GetProfile only ever exposes the caller's own record.
func (s *userService) GetProfile(ctx context.Context, viewer *model.User, id uuid.UUID) (*model.User, error) {
	if id != viewer.ID {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *userService) UpdateProfile(ctx context.Context, viewer *model.User, id uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(&in); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			taken, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = *in.PhoneNumber
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}
	if in.IsFarmer != nil {
		user.IsFarmer = *in.IsFarmer
	}
	if in.IsBuyer != nil {
		user.IsBuyer = *in.IsBuyer
	}
	user.UpdatedBy = viewer.ID.String()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Dashboard(ctx context.Context, viewer *model.User) (*Dashboard, error) {
	products, err := s.productRepo.CountByFarmer(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.CountByBuyer(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Username:      viewer.Username,
		Email:         viewer.Email,
		IsFarmer:      viewer.IsFarmer,
		IsBuyer:       viewer.IsBuyer,
		Location:      viewer.Location,
		ProductsCount: products,
		OrdersCount:   orders,
	}, nil
}
