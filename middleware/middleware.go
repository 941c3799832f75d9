package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventspark/globals"
	"eventspark/models"
	"eventspark/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	Name   string      `json:"name"`
	jwt.RegisteredClaims
}

// Auth issues and checks HS256 bearer tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (a *Auth) IssueToken(u models.User) (string, error) {
	now := a.now()
	claims := Claims{
		UserID: u.UserID,
		Role:   u.Role,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateJWT parses a raw token, accepting only HS256.
func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, models.ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// a websocket handshake, so upgrades may pass the token as ?token= instead.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

// Authenticate resolves the bearer token into the caller's id, role and
// name on the request context.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.ValidateJWT(bearerToken(r))
		if err != nil {
			utils.RespondWithAppError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		ctx = context.WithValue(ctx, globals.NameKey, claims.Name)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole authenticates and then admits only the listed roles.
func (a *Auth) RequireRole(next httprouter.Handle, roles ...models.Role) httprouter.Handle {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role := utils.GetRoleFromRequest(r)
		for _, allowed := range roles {
			if role == allowed {
				next(w, r, ps)
				return
			}
		}
		utils.RespondWithAppError(w, models.ErrForbidden)
	})
}
