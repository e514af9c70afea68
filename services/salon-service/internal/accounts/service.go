package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type Store interface {
	Insert(ctx context.Context, u model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
}

// TokenIssuer is satisfied by auth.Issuer.
type TokenIssuer interface {
	Issue(subject, role, email string) (string, time.Time, error)
}

type Service struct {
	store    Store
	tokens   TokenIssuer
	logger   *slog.Logger
	validate *validator.Validate
	cost     int
	now      func() time.Time
}

func NewService(store Store, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		logger:   logger,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

type Session struct {
	Token     string     `json:"token"`
	TokenType string     `json:"tokenType"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
}

type NewUser struct {
	FullName string
	Email    string
	Password string
	Role     model.Role
}

// Register creates a customer account and signs it in.
func (s *Service) Register(ctx context.Context, in NewUser) (Session, error) {
	in.Role = model.RoleCustomer
	u, err := s.create(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return s.session(u)
}

// CreateUser lets an admin add staff or admin accounts.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (model.User, error) {
	if !in.Role.Valid() {
		return model.User{}, apperr.Validation("role must be one of customer, staff, admin")
	}
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in NewUser) (model.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return model.User{}, apperr.Validation("fullName, email and password are required")
	}
	if err := s.validate.Var(in.Email, "email"); err != nil {
		return model.User{}, apperr.Validation("email is not valid")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return model.User{}, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		ID:           uuid.NewString(),
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Insert(ctx, u); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return model.User{}, apperr.Conflict("email already registered")
		}
		return model.User{}, err
	}
	s.logger.Info("user created", "user_id", u.ID, "role", string(u.Role))
	return u, nil
}

var errBadCredentials = apperr.Unauthorized("invalid email or password")

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, apperr.Validation("email and password are required")
	}
	u, err := s.store.GetByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		return Session{}, errBadCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Session{}, errBadCredentials
		}
		return Session{}, fmt.Errorf("verify password: %w", err)
	}
	return s.session(u)
}

func (s *Service) session(u model.User) (Session, error) {
	token, exp, err := s.tokens.Issue(u.ID, string(u.Role), u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, TokenType: "Bearer", ExpiresAt: exp, User: u}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, apperr.Unauthorized("authentication required")
	}
	return s.store.GetUser(ctx, userID)
}

// ListStaff is public so customers can pick a stylist when booking.
func (s *Service) ListStaff(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.store.ListByRole(ctx, model.RoleStaff)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, model.UserSummary{ID: u.ID, FullName: u.FullName})
	}
	return out, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	_, err = s.create(ctx, NewUser{FullName: "Administrator", Email: email, Password: password, Role: model.RoleAdmin})
	if apperr.Is(err, apperr.KindConflict) {
		return nil
	}
	return err
}
