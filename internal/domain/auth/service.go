package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"portfoliocms/internal/logging"
	"portfoliocms/internal/pkg/jwt"
	"portfoliocms/internal/pkg/validator"
)

type Service struct {
	repo Repository
	jwt  *jwt.Service
	log  *zap.Logger
	cost int
}

func NewService(repo Repository, jwtService *jwt.Service, log *zap.Logger) *Service {
	return &Service{repo: repo, jwt: jwtService, log: logging.OrNop(log), cost: bcrypt.DefaultCost}
}

// EnsureDefaultAdmin creates the operator account when no admin exists yet.
// It never touches an existing account, so a changed password survives restarts.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, errors.New("default admin needs a username and a password")
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return false, err
	}
	if err := s.repo.Create(ctx, &Admin{Username: username, PasswordHash: hash}); err != nil {
		return false, fmt.Errorf("create default admin: %w", err)
	}
	s.log.Warn("default admin account created, change its password", zap.String("username", username))
	return true, nil
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *Admin, error) {
	a, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrAdminNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if CheckPassword(password, a.PasswordHash) != nil {
		s.log.Warn("failed login", zap.String("username", a.Username))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(a.ID, a.Username)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	s.log.Info("admin logged in", zap.Uint("admin_id", a.ID))
	return token, a, nil
}

func (s *Service) GetByID(ctx context.Context, id uint) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangePassword replaces the password after re-checking the current one.
func (s *Service) ChangePassword(ctx context.Context, adminID uint, in ChangePasswordInput) error {
	if err := validator.Check(&in); err != nil {
		return err
	}
	a, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if CheckPassword(in.CurrentPassword, a.PasswordHash) != nil {
		return ErrWrongPassword
	}

	hash, err := HashPassword(in.NewPassword, s.cost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, adminID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("admin password changed", zap.Uint("admin_id", adminID))
	return nil
}
