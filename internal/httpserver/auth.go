// internal/httpserver/auth.go
//
// Who may change what.
//   - Scorekeeper tokens: HS256 JWTs issued by POST /games, bound to one
//     game ID. Sent as "Authorization: Bearer <token>".
//   - Admin PIN: clearing history needs X-Admin-Pin matching the bcrypt hash
//     in ADMIN_PIN_HASH. No hash configured means nobody may clear it.

package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// scorekeeperClaims binds a token to one game.
type scorekeeperClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

func (s *Server) secret() []byte {
	if s.cfg.JWTSecret == "" {
		return []byte("dev_secret_change_me")
	}
	return []byte(s.cfg.JWTSecret)
}

func (s *Server) tokenTTL() time.Duration {
	if s.cfg.TokenTTL <= 0 {
		return 12 * time.Hour
	}
	return s.cfg.TokenTTL
}

// signScorekeeper issues a token for game gameID.
func (s *Server) signScorekeeper(gameID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, scorekeeperClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "scorekeeper",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(s.secret())
	return ss, exp, err
}

// verifyScorekeeper returns the game ID a token was issued for.
func (s *Server) verifyScorekeeper(tokenStr string) (string, error) {
	var claims scorekeeperClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.GameID == "" {
		return "", errors.New("invalid token")
	}
	return claims.GameID, nil
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireScorekeeper enforces a valid token for the game named in the URL.
func (s *Server) requireScorekeeper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		gid, err := s.verifyScorekeeper(tokenStr)
		if err != nil {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		if gid != chi.URLParam(r, "id") {
			http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdminPIN checks X-Admin-Pin against the configured bcrypt hash.
func (s *Server) requireAdminPIN(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminPINHash == "" {
			http.Error(w, `{"error":"admin_disabled"}`, http.StatusForbidden)
			return
		}
		pin := r.Header.Get("X-Admin-Pin")
		if pin == "" || bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPINHash), []byte(pin)) != nil {
			http.Error(w, `{"error":"Invalid PIN"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
