package services

import (
	"PearlDental/database"
	"PearlDental/models"
	"PearlDental/repositories"
	"PearlDental/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type UserService interface {
	ValidateAndCreateUser(ctx context.Context, user *models.User) error
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, uid string, hashedPassword string) error
	UpdateUserProfile(ctx context.Context, uid string, displayName, phone string) error
	ListStaff(ctx context.Context, role string) ([]models.User, error)
	DeleteUser(ctx context.Context, uid string) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// ValidateAndCreateUser registers a new account. The email lock prevents a
// duplicate-registration race between the existence check and the insert.
func (s *userService) ValidateAndCreateUser(ctx context.Context, user *models.User) error {
	lockKey := fmt.Sprintf("user_lock:%s", user.Email)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, time.Minute)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("failed to acquire lock")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	if user.Role == "" {
		user.Role = models.RoleClient
	}
	if user.UID == "" {
		user.UID = uuid.New().String()
	}

	if err := utils.ValidateUserData(*user); err != nil {
		return fmt.Errorf("invalid user data: %w", err)
	}

	if exists, err := s.userRepo.EmailExists(ctx, user.Email); err != nil || exists {
		return errors.New("email already registered")
	}

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	return s.userRepo.CreateUser(ctx, user)
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, errors.New("invalid email or password")
	}

	return user, nil
}

func (s *userService) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	return s.userRepo.GetUserByUID(ctx, uid)
}

func (s *userService) UpdateUserPassword(ctx context.Context, uid string, hashedPassword string) error {
	return s.userRepo.UpdateUserPassword(ctx, uid, hashedPassword)
}

func (s *userService) UpdateUserProfile(ctx context.Context, uid string, displayName, phone string) error {
	return s.userRepo.UpdateUserProfile(ctx, uid, displayName, phone)
}

func (s *userService) ListStaff(ctx context.Context, role string) ([]models.User, error) {
	return s.userRepo.ListStaff(ctx, role)
}

func (s *userService) DeleteUser(ctx context.Context, uid string) error {
	return s.userRepo.DeleteUser(ctx, uid)
}
