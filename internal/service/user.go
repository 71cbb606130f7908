// internal/service/user.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dangerclosesec/greenhug/internal/auth"
	"github.com/dangerclosesec/greenhug/internal/domain"
	"github.com/dangerclosesec/greenhug/internal/model"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserService struct {
	repo           repository.UserRepositoryIface
	tx             repository.Transactor
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	validate       *validator.Validate
}

func NewUserService(
	repo repository.UserRepositoryIface,
	tx repository.Transactor,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
) *UserService {
	return &UserService{
		repo:           repo,
		tx:             tx,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		validate:       validator.New(),
	}
}

type CreateUserInput struct {
	Name     string     `json:"name" validate:"required,max=100"`
	Password string     `json:"password" validate:"required"`
	Role     model.Role `json:"role"`
}

// UpdateUserInput changes only the fields that are set.
type UpdateUserInput struct {
	Name     *string     `json:"name,omitempty"`
	Password *string     `json:"password,omitempty"`
	Role     *model.Role `json:"role,omitempty"`
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a user. The role defaults to ADMIN.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = model.RoleAdmin
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*model.User, error) {
	var user *model.User

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
			}
			user.Name = name
		}

		if input.Password != nil && *input.Password != "" {
			hash, err := s.hashPassword(*input.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if input.Role != nil && *input.Role != "" && *input.Role != user.Role {
			if !input.Role.Valid() {
				return domain.ErrInvalidRole
			}
			if user.Role == model.RoleSuperAdmin {
				if err := s.ensureAnotherSuperAdmin(ctx); err != nil {
					return err
				}
			}
			user.Role = *input.Role
		}

		return s.repo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user. The last SUPER_ADMIN cannot be removed.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if user.Role == model.RoleSuperAdmin {
			if err := s.ensureAnotherSuperAdmin(ctx); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}

		slog.InfoContext(ctx, "user deleted", "user_id", id)
		return nil
	})
}

func (s *UserService) ensureAnotherSuperAdmin(ctx context.Context) error {
	count, err := s.repo.CountByRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("counting super admins: %w", err)
	}
	if count <= 1 {
		return domain.ErrLastSuperAdmin
	}
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	if err := auth.CheckStrength(password); err != nil {
		return "", err
	}
	hash, err := s.passwordHasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

// findForLogin maps an unknown user to invalid credentials.
func (s *UserService) findForLogin(ctx context.Context, name string) (*model.User, error) {
	user, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}
