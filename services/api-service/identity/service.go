// Package identity covers registration, login, account administration,
// profiles and the one-time admin bootstrap.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"rakshak-women-safety/pkg/apperror"
	"rakshak-women-safety/pkg/security"
	"rakshak-women-safety/services/api-service/models"
	"rakshak-women-safety/services/api-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const minPasswordLength = 6

// TokenGenerator is satisfied by *security.TokenIssuer.
type TokenGenerator interface {
	GenerateJWT(userID, email, role string) (string, error)
}

// Membership moves officers between divisions keeping both sides in step.
type Membership interface {
	Transfer(ctx context.Context, officer *models.User, target *primitive.ObjectID) error
}

type Service struct {
	users      store.Users
	divisions  store.Divisions
	states     store.SystemStates
	tokens     TokenGenerator
	membership Membership
	// privilegedEmail is the bootstrap admin, which can never be deleted.
	privilegedEmail string
	now             func() time.Time
}

type Deps struct {
	Users           store.Users
	Divisions       store.Divisions
	States          store.SystemStates
	Tokens          TokenGenerator
	Membership      Membership
	PrivilegedEmail string
}

func NewService(deps Deps) *Service {
	return &Service{
		users:           deps.Users,
		divisions:       deps.Divisions,
		states:          deps.States,
		tokens:          deps.Tokens,
		membership:      deps.Membership,
		privilegedEmail: strings.ToLower(strings.TrimSpace(deps.PrivilegedEmail)),
		now:             time.Now,
	}
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateAccount(name, email, password, phone string) error {
	if strings.TrimSpace(name) == "" || email == "" || password == "" || strings.TrimSpace(phone) == "" {
		return apperror.Validation("Name, email, password, and phone are required")
	}
	if !models.ValidEmail(email) {
		return apperror.Validation("Invalid email address")
	}
	if len(password) < minPasswordLength {
		return apperror.Validation("Password must be at least 6 characters")
	}
	return nil
}

// newAccount hashes the password and stores a user with role.
func (s *Service) newAccount(ctx context.Context, name, email, password, phone string, role models.Role) (*models.User, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to hash password")
	}

	now := s.now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hash,
		Phone:     strings.TrimSpace(phone),
		Role:      role,
		Guardians: []primitive.ObjectID{},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.users.CreateUser(ctx, user)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, apperror.Conflict("Email already in use")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to create user")
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateJWT(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err, "Failed to generate token")
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Register creates a self-service account, always with role user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if err := validateAccount(in.Name, email, in.Password, in.Phone); err != nil {
		return nil, err
	}

	user, err := s.newAccount(ctx, in.Name, email, in.Password, in.Phone, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

type LoginInput struct {
	Email    string
	Password string
	// Role, when set, must match the account's role.
	Role models.Role
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load user")
	}

	if !security.CheckPasswordHash(in.Password, user.Password) {
		return nil, apperror.Unauthenticated("Invalid credentials")
	}
	if in.Role != "" && user.Role != in.Role {
		return nil, apperror.Unauthenticated("Invalid role")
	}
	if !user.Active {
		return nil, apperror.Authorization("Account is deactivated")
	}
	return s.issue(user)
}

type AdminSeed struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// BootstrapAdmin creates the first admin once. The persisted flag makes
// later calls no-ops even if that admin is renamed or removed.
func (s *Service) BootstrapAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	state, err := s.states.GetSystemState(ctx, models.BootstrapStateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, apperror.Internal(err, "Failed to read system state")
	}
	if state != nil && state.AdminInitialized {
		return false, nil
	}

	email := normalizeEmail(seed.Email)
	created := false
	existing, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if err := validateAccount(seed.Name, email, seed.Password, seed.Phone); err != nil {
			return false, err
		}
		if _, err := s.newAccount(ctx, seed.Name, email, seed.Password, seed.Phone, models.RoleAdmin); err != nil {
			return false, err
		}
		created = true
	case err != nil:
		return false, apperror.Internal(err, "Failed to load admin account")
	case existing.Role != models.RoleAdmin:
		role := models.RoleAdmin
		if _, err := s.users.UpdateUser(ctx, existing.ID, models.UserPatch{Role: &role}); err != nil {
			return false, apperror.Internal(err, "Failed to promote admin account")
		}
	}

	if err := s.states.MarkAdminInitialized(ctx); err != nil {
		return false, apperror.Internal(err, "Failed to persist bootstrap flag")
	}
	return created, nil
}

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err, "Failed to load user")
	}
	return user, nil
}

// Actor resolves the division of an authenticated caller. The role comes
// from the stored account, not the token.
func (s *Service) Actor(ctx context.Context, id primitive.ObjectID) (models.Actor, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return models.Actor{}, err
	}
	if !user.Active {
		return models.Actor{}, apperror.Authorization("Account is deactivated")
	}
	return user.Actor(), nil
}
