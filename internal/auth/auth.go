package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spainrp/awards/internal/models"
)

const (
	CookieName    = "token"
	SessionExpiry = 24 * time.Hour
)

var (
	ErrNoToken      = errors.New("no session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims are the dashboard session claims. Field names match what the
// frontend reads from the decoded token.
type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// User returns the identity carried by the claims
func (c *Claims) User() models.User {
	return models.User{ID: c.ID, Username: c.Username, AvatarURL: c.Avatar}
}

type ctxKey struct{}

// WithClaims stores claims in ctx
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFrom returns the claims stored by RequireAuth
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// Auth issues and verifies HS256 session tokens
type Auth struct {
	secret  []byte
	isAdmin func(userID string) bool
	now     func() time.Time
}

// New creates an Auth signing with secret. isAdmin, when non-nil, is
// consulted on every admin-only request so revoked admins lose access before
// their token expires.
func New(secret string, isAdmin func(userID string) bool) *Auth {
	return &Auth{secret: []byte(secret), isAdmin: isAdmin, now: time.Now}
}

// Issue signs a token for user valid for SessionExpiry
func (a *Auth) Issue(user models.User, isAdmin bool) (string, error) {
	now := a.now()
	claims := &Claims{
		ID:       user.ID,
		Username: user.Username,
		Avatar:   user.AvatarURL,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse verifies token and returns its claims
func (a *Auth) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromRequest reads the session cookie, then a Bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

// FromRequest authenticates r
func (a *Auth) FromRequest(r *http.Request) (*Claims, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, ErrNoToken
	}
	return a.Parse(token)
}

// RequireAuth rejects requests without a valid token: 401 when missing, 403
// when invalid.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.FromRequest(r)
		switch {
		case errors.Is(err, ErrNoToken):
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Acceso Denegado")
			return
		case err != nil:
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Token inválido")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin must run after RequireAuth
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok || !claims.IsAdmin || (a.isAdmin != nil && !a.isAdmin(claims.ID)) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Se requieren permisos de administrador")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"code":%q,"error":%q}`, code, msg)
}

// SetSessionCookie sets the session cookie. SameSite=None lets the dashboard
// on another origin send it.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})
}
