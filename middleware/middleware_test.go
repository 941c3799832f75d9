package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventspark/models"
	"eventspark/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var organizer = models.User{UserID: "org-1", Name: "Olive", Role: models.RoleOrganizer}

func whoami(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := utils.CallerFromRequest(r)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"userId": c.UserID, "role": string(c.Role)})
}

func call(h httprouter.Handle, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	return rec
}

func TestIssueAndValidate(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	token, err := a.IssueToken(organizer)
	require.NoError(t, err)

	claims, err := a.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "org-1", claims.UserID)
	assert.Equal(t, models.RoleOrganizer, claims.Role)
	assert.Equal(t, "Olive", claims.Name)

	_, err = NewAuth("other", time.Hour).ValidateJWT(token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestValidateRejectsExpiredAndForeignAlgorithms(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := a.IssueToken(organizer)
	require.NoError(t, err)

	fresh := NewAuth("secret", time.Hour)
	_, err = fresh.ValidateJWT(expired)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = fresh.ValidateJWT(none)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	token, _ := a.IssueToken(organizer)
	h := a.Authenticate(whoami)

	rec := call(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, call(h, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = call(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"userId": "org-1", "role": "organizer"}, body)
}

func TestAuthenticateWebsocketQueryToken(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	token, _ := a.IssueToken(organizer)
	h := a.Authenticate(whoami)

	req := httptest.NewRequest(http.MethodGet, "/live?token="+token, nil)
	assert.Equal(t, http.StatusUnauthorized, call(h, req).Code, "query token only for upgrades")

	req = httptest.NewRequest(http.MethodGet, "/live?token="+token, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	assert.Equal(t, http.StatusOK, call(h, req).Code)
}

func TestRequireRole(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	h := a.RequireRole(whoami, models.RoleAdmin)

	userToken, _ := a.IssueToken(models.User{UserID: "u-1", Role: models.RoleUser})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, call(h, req).Code)

	adminToken, _ := a.IssueToken(models.User{UserID: "a-1", Role: models.RoleAdmin})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, call(h, req).Code)
}
