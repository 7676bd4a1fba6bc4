package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pramuka-adm-api/internal/models"
	appErrors "github.com/noah-isme/pramuka-adm-api/pkg/errors"
)

const userModule = "user"

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsForInstitution(ctx context.Context, institutionID string) (bool, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error)
	Create(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id string, active bool) error
	SoftDelete(ctx context.Context, id string) error
}

// UserService manages application accounts and self-registration.
type UserService struct {
	repo         userStore
	institutions institutionReader
	audit        auditLogger
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewUserService builds a UserService with sane defaults.
func NewUserService(repo userStore, institutions institutionReader, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, institutions: institutions, audit: audit, validator: validate, logger: logger}
}

// Register creates a new institution-bound account. The account starts
// inactive and cannot log in until an admin activates it. At most one
// account can be registered per institution this way.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if req.InstitutionID == nil || *req.InstitutionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "institution_id is required")
	}

	if _, err := s.institutions.FindByID(ctx, *req.InstitutionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institution not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	taken, err := s.repo.ExistsForInstitution(ctx, *req.InstitutionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check institution account")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "institution already has a registered account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:         req.Email,
		PasswordHash:  string(hash),
		FullName:      req.FullName,
		Role:          models.RoleUser,
		InstitutionID: req.InstitutionID,
		Active:        false,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	recordAudit(ctx, s.audit, s.logger, nil, models.AuditActionCreate, userModule,
		fmt.Sprintf("registered account %s (pending activation)", user.Email))
	return user, nil
}

// List returns accounts. Only admins and super admins may list accounts.
func (s *UserService) List(ctx context.Context, filter models.UserFilter, claims *models.JWTClaims) ([]models.UserDetail, int, error) {
	if claims == nil {
		return nil, 0, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleSuperAdmin {
		return nil, 0, appErrors.ErrForbidden
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, total, nil
}

// ToggleStatus activates or suspends an account. Super admin accounts can
// only be toggled by another super admin.
func (s *UserService) ToggleStatus(ctx context.Context, id string, active bool, claims *models.JWTClaims) (*models.User, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleSuperAdmin {
		return nil, appErrors.ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if user.Role == models.RoleSuperAdmin && claims.Role != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot change a super admin account")
	}
	if user.ID == claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot change your own account status")
	}

	if err := s.repo.SetActive(ctx, user.ID, active); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update account status")
	}
	user.Active = active

	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionStatusToggle, userModule,
		fmt.Sprintf("set account %s active=%t", user.Email, active))
	return user, nil
}

// Delete soft-removes an account. Super admins cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only super admins can delete accounts")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}
	if user.Role == models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "super admin accounts cannot be deleted")
	}
	if err := s.repo.SoftDelete(ctx, user.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete account")
	}
	recordAudit(ctx, s.audit, s.logger, claims, models.AuditActionDelete, userModule,
		fmt.Sprintf("deleted account %s", user.Email))
	return nil
}
