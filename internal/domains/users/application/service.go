package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Apurer/instrumentos-api/internal/domains/users/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := domain.NewUser(username, password, domain.RoleViewer)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, user)
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	return user, nil
}

// EnsureAdmin leaves an existing account untouched, whatever its role.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	existing, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.WarnContext(ctx, "bootstrap admin username belongs to a non-admin account", slog.String("username", existing.Username))
		}
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	user, err := domain.NewUser(username, password, domain.RoleAdmin)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.repo.Create(ctx, user)
	if errors.Is(err, ports.ErrDuplicateUsername) {
		return s.repo.GetByUsername(ctx, user.Username)
	}
	return created, err
}

var _ ports.Service = (*Service)(nil)
