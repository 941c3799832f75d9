// Package admin manages user roles. Every route here is admin only.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eventspark/auth"
	"eventspark/models"
	"eventspark/utils"
)

type Store interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	InsertUser(ctx context.Context, u models.User) error
	ListUsers(ctx context.Context, role models.Role) ([]models.User, error)
	SetRole(ctx context.Context, email string, role models.Role) (models.User, error)
}

// RoleNotifier tells a user their role changed.
type RoleNotifier interface {
	RoleChanged(ctx context.Context, msg models.RoleChange) error
}

type Service struct {
	users    Store
	notifier RoleNotifier
	now      func() time.Time
	newID    func() string
}

func NewService(users Store, notifier RoleNotifier) *Service {
	return &Service{users: users, notifier: notifier, now: time.Now, newID: utils.GetUUID}
}

// Grouped lists every user keyed by role. All three roles are present even
// when empty.
func (s *Service) Grouped(ctx context.Context) (map[models.Role][]models.User, error) {
	users, err := s.users.ListUsers(ctx, "")
	if err != nil {
		return nil, err
	}
	grouped := map[models.Role][]models.User{
		models.RoleUser:      {},
		models.RoleOrganizer: {},
		models.RoleAdmin:     {},
	}
	for _, u := range users {
		grouped[u.Role] = append(grouped[u.Role], u)
	}
	return grouped, nil
}

func (s *Service) List(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.users.ListUsers(ctx, role)
}

func (s *Service) UpdateRole(ctx context.Context, email string, role models.Role) (models.User, error) {
	email = auth.NormalizeEmail(email)
	if email == "" || role == "" {
		return models.User{}, models.Validation("Email and role are required.")
	}
	if !role.Valid() {
		return models.User{}, models.Validation("Invalid role.")
	}

	current, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if current.Role == role {
		return models.User{}, &models.Error{
			Kind:    models.KindConflict,
			Code:    "role_unchanged",
			Message: fmt.Sprintf("User is already a %s.", role),
		}
	}

	updated, err := s.users.SetRole(ctx, email, role)
	if err != nil {
		return models.User{}, err
	}
	log.Printf("[Admin] %s role changed %s -> %s", updated.UserID, current.Role, role)
	s.notify(ctx, updated)
	return updated, nil
}

// Invite promotes an existing user or creates a new account with a random
// password the invitee replaces later. Only staff roles can be invited.
func (s *Service) Invite(ctx context.Context, name, email string, role models.Role) (models.User, error) {
	name = strings.TrimSpace(name)
	email = auth.NormalizeEmail(email)
	if name == "" || email == "" || role == "" {
		return models.User{}, models.Validation("Name, email, and role are required.")
	}
	if role != models.RoleAdmin && role != models.RoleOrganizer {
		return models.User{}, models.Validation("Role must be admin or organizer.")
	}
	if !utils.ValidEmail(email) {
		return models.User{}, models.Validation("Please provide a valid email")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return s.UpdateRole(ctx, email, role)
	case !errors.Is(err, models.ErrUserNotFound):
		return models.User{}, err
	}

	hashed, err := auth.HashPassword(s.newID())
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		UserID:    s.newID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      role,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		return models.User{}, err
	}
	log.Printf("[Admin] invited %s as %s", user.UserID, role)
	s.notify(ctx, user)
	return user, nil
}

func (s *Service) notify(ctx context.Context, u models.User) {
	if s.notifier == nil {
		return
	}
	msg := models.RoleChange{Email: u.Email, Name: u.Name, Role: u.Role}
	if err := s.notifier.RoleChanged(ctx, msg); err != nil {
		log.Printf("[Admin] role change notification for %s failed: %v", u.UserID, err)
	}
}
