package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"eventspark/models"
	"eventspark/utils"

	"golang.org/x/crypto/bcrypt"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

type Store interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	InsertUser(ctx context.Context, u models.User) error
}

type TokenIssuer interface {
	IssueToken(u models.User) (string, error)
}

type Service struct {
	users  Store
	tokens TokenIssuer
	now    func() time.Time
	newID  func() string
}

func NewService(users Store, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now, newID: utils.GetUUID}
}

type SignupInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        models.Role `json:"role"`
}

// Session is what signup and signin hand back.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(in *SignupInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	if n := len([]rune(in.Name)); n < 2 || n > 50 {
		return models.Validation("Name must be between 2 and 50 characters")
	}
	if !utils.ValidEmail(in.Email) {
		return models.Validation("Please provide a valid email")
	}
	if len(in.Password) < 6 {
		return models.Validation("Password must be at least 6 characters long")
	}
	if in.PhoneNumber != "" && !phonePattern.MatchString(in.PhoneNumber) {
		return models.Validation("Please provide a valid phone number")
	}
	// admins only come in through an admin invite
	if in.Role != models.RoleUser && in.Role != models.RoleOrganizer {
		return models.Validation("Role must be user or organizer")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if err := validateSignup(&in); err != nil {
		return Session{}, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	user := models.User{
		UserID:      s.newID(),
		Name:        in.Name,
		Email:       in.Email,
		Password:    hashed,
		PhoneNumber: in.PhoneNumber,
		Role:        in.Role,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		return Session{}, err
	}
	log.Printf("[Auth] user %s signed up as %s", user.UserID, user.Role)

	return s.session(user)
}

func (s *Service) Signin(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)
	if !utils.ValidEmail(email) {
		return Session{}, models.Validation("Please provide a valid email")
	}
	if password == "" {
		return Session{}, models.Validation("Password is required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		return Session{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return Session{}, models.ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *Service) Me(ctx context.Context, userID string) (models.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *Service) session(user models.User) (Session, error) {
	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token}, nil
}
