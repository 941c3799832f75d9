package admin

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"eventspark/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{users: make(map[string]models.User)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) InsertUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return models.ErrUserExists
	}
	m.users[u.Email] = u
	return nil
}

func (m *memUsers) ListUsers(_ context.Context, role models.Role) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memUsers) SetRole(_ context.Context, email string, role models.Role) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	u.Role = role
	m.users[email] = u
	return u, nil
}

type recordingNotifier struct {
	sent []models.RoleChange
	err  error
}

func (n *recordingNotifier) RoleChanged(_ context.Context, msg models.RoleChange) error {
	n.sent = append(n.sent, msg)
	return n.err
}

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func seed() *memUsers {
	return newMemUsers(
		models.User{UserID: "u-1", Name: "Uma", Email: "uma@example.com", Role: models.RoleUser, CreatedAt: base},
		models.User{UserID: "o-1", Name: "Otto", Email: "otto@example.com", Role: models.RoleOrganizer, CreatedAt: base.Add(time.Hour)},
		models.User{UserID: "u-2", Name: "Ursa", Email: "ursa@example.com", Role: models.RoleUser, CreatedAt: base.Add(2 * time.Hour)},
	)
}

func TestGroupedIncludesEmptyRoles(t *testing.T) {
	svc := NewService(seed(), nil)
	grouped, err := svc.Grouped(context.Background())
	require.NoError(t, err)

	require.Len(t, grouped[models.RoleUser], 2)
	assert.Equal(t, "u-2", grouped[models.RoleUser][0].UserID, "newest first")
	assert.Len(t, grouped[models.RoleOrganizer], 1)
	assert.NotNil(t, grouped[models.RoleAdmin])
	assert.Empty(t, grouped[models.RoleAdmin])
}

func TestUpdateRole(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(seed(), notifier)

	u, err := svc.UpdateRole(context.Background(), "Uma@Example.com", models.RoleOrganizer)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, u.Role)
	assert.Equal(t, []models.RoleChange{{Email: "uma@example.com", Name: "Uma", Role: models.RoleOrganizer}}, notifier.sent)

	_, err = svc.UpdateRole(context.Background(), "uma@example.com", models.RoleOrganizer)
	assert.Equal(t, models.KindConflict, models.KindOf(err))

	_, err = svc.UpdateRole(context.Background(), "ghost@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = svc.UpdateRole(context.Background(), "uma@example.com", "root")
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestUpdateRoleSurvivesNotifierFailure(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("redis down")}
	svc := NewService(seed(), notifier)

	u, err := svc.UpdateRole(context.Background(), "uma@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestInvite(t *testing.T) {
	users := seed()
	notifier := &recordingNotifier{}
	svc := NewService(users, notifier)

	created, err := svc.Invite(context.Background(), "Nia", "nia@example.com", models.RoleOrganizer)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, created.Role)
	assert.NotEmpty(t, created.Password)

	promoted, err := svc.Invite(context.Background(), "Uma", "uma@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "u-1", promoted.UserID)
	assert.Len(t, notifier.sent, 2)

	_, err = svc.Invite(context.Background(), "Zed", "zed@example.com", models.RoleUser)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestUpdateRoleHandler(t *testing.T) {
	h := NewHandlers(NewService(seed(), nil))

	rec := httptest.NewRecorder()
	h.UpdateRole(rec, httptest.NewRequest(http.MethodPatch, "/api/auth/users/role",
		bytes.NewBufferString(`{"email":"otto@example.com","role":"organizer"}`)), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "User is already a organizer.")

	rec = httptest.NewRecorder()
	h.UpdateRole(rec, httptest.NewRequest(http.MethodPatch, "/api/auth/users/role",
		bytes.NewBufferString(`{"email":"otto@example.com","role":"admin"}`)), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User role updated to admin")

	rec = httptest.NewRecorder()
	h.ListUsers(models.RoleOrganizer)(rec, httptest.NewRequest(http.MethodGet, "/api/auth/users/organizers", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "otto@example.com")
}
