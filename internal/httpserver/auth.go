// internal/httpserver/auth.go
//
// Bot-client authentication.
// The surrounding chat bot is a registered API client: its id and a
// bcrypt-hashed secret live in the api_clients table. POST /auth/token
// exchanges client credentials for a short-lived HS256 JWT; requireClient
// gates every /game route on a valid token.
//
// EnsureBootstrapClient seeds one client from BOT_CLIENT_NAME /
// BOT_CLIENT_SECRET on first start so a fresh deployment can authenticate
// without manual SQL.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type apiClient struct {
	ID         string
	Name       string
	SecretHash string
	CreatedAt  time.Time
}

type ctxClientKey struct{}

// tokenTTL bounds how long an issued token is valid.
const tokenTTL = 12 * time.Hour

// EnsureBootstrapClient registers the client named in BOT_CLIENT_NAME with
// the secret in BOT_CLIENT_SECRET if no client with that name exists yet.
// It returns the client id so operators can log it on first boot.
func EnsureBootstrapClient(db *sql.DB) (string, error) {
	name := os.Getenv("BOT_CLIENT_NAME")
	secret := os.Getenv("BOT_CLIENT_SECRET")
	if name == "" || secret == "" {
		return "", nil
	}

	var id string
	err := db.QueryRow(`SELECT id FROM api_clients WHERE name=?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	id = uuid.NewString()
	if _, err := db.Exec(`INSERT INTO api_clients (id, name, secret_hash, created_at) VALUES (?,?,?,?)`,
		id, name, string(hash), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", err
	}
	log.Info().Str("client", name).Str("id", id).Msg("bootstrap api client registered")
	return id, nil
}

func findClientByID(db *sql.DB, id string) (*apiClient, error) {
	row := db.QueryRow(`SELECT id, name, secret_hash, created_at FROM api_clients WHERE id=?`, id)
	var c apiClient
	var created string
	if err := row.Scan(&c.ID, &c.Name, &c.SecretHash, &created); err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &c, nil
}

// tokenReq/tokenRes payloads for POST /auth/token.
type tokenReq struct {
	ClientID string `json:"clientId"`
	Secret   string `json:"secret"`
}
type tokenRes struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// handleToken verifies client credentials and issues a JWT.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	c, err := findClientByID(s.db, req.ClientID)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte(req.Secret)) != nil {
		http.Error(w, `{"error":"invalid_credentials"}`, http.StatusUnauthorized)
		return
	}

	exp := time.Now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  c.ID,
		"name": c.Name,
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	ss, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(tokenRes{Token: ss, ExpiresAt: exp.Unix()})
}

// requireClient enforces a valid bearer token on gated routes.
func (s *Server) requireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		id, _ := claims["sub"].(string)
		if id == "" {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		// Ensure the client still exists.
		if _, err := findClientByID(s.db, id); err != nil {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxClientKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
