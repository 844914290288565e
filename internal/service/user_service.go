package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"
	"go-itstock/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, actor Actor, req *CreateUserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, actor Actor, userID uuid.UUID, req *UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error
	GetAllUsers(actor Actor) ([]model.UserResponse, error)
	GetUserByID(actor Actor, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"notblank,max=150"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=255"`
	RoleID   uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Username string  `json:"username" validate:"notblank,max=150"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName string  `json:"full_name" validate:"max=255"`
	RoleID   uint    `json:"role_id" validate:"required"`
	IsActive *bool   `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	audit    auditor
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, aRepo repository.ActivityRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		audit:    auditor{repo: aRepo},
	}
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req *CreateUserRequest) (*model.User, error) {
	if err := actor.require(model.RoleAdmin); err != nil {
		return nil, err
	}
	if msg := validator.FirstError(req); msg != "" {
		return nil, &ValidationError{Msg: msg}
	}

	username := strings.TrimSpace(req.Username)
	if existing, _ := s.userRepo.FindByUsername(username); existing != nil {
		return nil, validationf("username %q already exists", username)
	}
	if _, err := s.roleRepo.FindByID(req.RoleID); err != nil {
		return nil, validationf("role %d not found", req.RoleID)
	}

	user := &model.User{
		Username: username,
		FullName: strings.TrimSpace(req.FullName),
		RoleID:   &req.RoleID,
		IsActive: true,
	}
	user.CreatedBy = actor.ID.String()
	user.UpdatedBy = actor.ID.String()
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := s.audit.record(ctx, actor, ActionUserCreated, fmt.Sprintf("Created user %s", user.Username)); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(user.ID)
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, userID uuid.UUID, req *UpdateUserRequest) (*model.User, error) {
	if err := actor.require(model.RoleAdmin); err != nil {
		return nil, err
	}
	if msg := validator.FirstError(req); msg != "" {
		return nil, &ValidationError{Msg: msg}
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound("user", userID)
	}

	username := strings.TrimSpace(req.Username)
	if username != user.Username {
		if existing, _ := s.userRepo.FindByUsername(username); existing != nil {
			return nil, validationf("username %q already exists", username)
		}
	}
	if _, err := s.roleRepo.FindByID(req.RoleID); err != nil {
		return nil, validationf("role %d not found", req.RoleID)
	}

	user.Username = username
	user.FullName = strings.TrimSpace(req.FullName)
	user.RoleID = &req.RoleID
	user.Role = nil
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.ID.String()
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if err := s.audit.record(ctx, actor, ActionUserUpdated, fmt.Sprintf("Updated user %s", user.Username)); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error {
	if err := actor.require(model.RoleAdmin); err != nil {
		return err
	}
	if userID == actor.ID {
		return validationf("you cannot delete your own account")
	}

	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("user", userID)
	}
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	return s.audit.record(ctx, actor, ActionUserDeleted, fmt.Sprintf("Deleted user %s", user.Username))
}

func (s *userService) GetAllUsers(actor Actor) ([]model.UserResponse, error) {
	if err := actor.require(model.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(actor Actor, id uuid.UUID) (*model.UserResponse, error) {
	if err := actor.require(model.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFound("user", id)
	}
	response := user.ToResponse()
	return &response, nil
}
