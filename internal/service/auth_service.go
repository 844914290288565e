package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-itstock/internal/model"
	"go-itstock/internal/repository"
	"go-itstock/internal/ws"
	"go-itstock/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in elsewhere or logged out)")
)

const minPasswordLength = 6

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	Logout(ctx context.Context, actor Actor) error
	Authenticate(tokenString string) (*model.User, error)
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	ChangePassword(ctx context.Context, actor Actor, oldPassword, newPassword string) error
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	audit    auditor
	signer   *jwt.Signer
	notifier Notifier
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, aRepo repository.ActivityRepository, signer *jwt.Signer, notifier Notifier, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		audit:    auditor{repo: aRepo},
		signer:   signer,
		notifier: notifier,
		log:      log,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a new version invalidates tokens issued before.
	now := time.Now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := s.signer.GenerateToken(user.ID, user.Username, user.DisplayName(), user.RoleCode(), user.GetPrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	if err := s.audit.record(ctx, ActorFromUser(user), ActionLogin, "User logged in"); err != nil {
		s.log.Warn("failed to record login", zap.String("username", user.Username), zap.Error(err))
	}
	s.log.Info("user logged in", zap.String("username", user.Username))

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

// Logout rotates the token version so the current token stops validating.
func (s *authService) Logout(ctx context.Context, actor Actor) error {
	if err := actor.require(model.RoleUser); err != nil {
		return err
	}
	if err := s.userRepo.UpdateTokenVersion(actor.ID, uuid.New().String()); err != nil {
		return err
	}
	if err := s.audit.record(ctx, actor, ActionLogout, "User logged out"); err != nil {
		s.log.Warn("failed to record logout", zap.String("username", actor.Username), zap.Error(err))
	}
	return nil
}

// Authenticate resolves a bearer token to its active user. Every failure
// wraps ErrAuthenticationRequired.
func (s *authService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := s.signer.ValidateToken(tokenString)
	if err != nil {
		return nil, errors.Join(ErrAuthenticationRequired, err)
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, errors.Join(ErrAuthenticationRequired, jwt.ErrInvalidToken)
	}
	if !user.IsActive {
		return nil, errors.Join(ErrAuthenticationRequired, ErrUserInactive)
	}
	if user.TokenVersion == "" || user.TokenVersion != claims.TokenVersion {
		return nil, errors.Join(ErrAuthenticationRequired, ErrSessionReplaced)
	}
	return user, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	user, err := s.Authenticate(tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, oldPassword, newPassword string) error {
	if err := actor.require(model.RoleUser); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return validationf("new password must have at least %d characters", minPasswordLength)
	}

	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		return notFound("user", actor.ID)
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}
	return s.audit.record(ctx, actor, ActionPasswordChanged, "Password changed")
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}
	s.notifier.Publish(ws.Event{
		Type: "user_status_update",
		Data: map[string]interface{}{
			"user_id":      userID.String(),
			"status":       "online",
			"last_seen_at": time.Now(),
		},
	})
	return nil
}
