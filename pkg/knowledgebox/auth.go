package knowledgebox

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/knowledgebox/knowledgebox/pkg/models"
)

var errNoIdentity = errors.New("no caller identity in token")

// IssueToken mints an HS256-signed JWT carrying the caller identity in both
// the sub and user_id claims. The verification side accepts either claim,
// matching what clients of the original API were issued.
func (a *App) IssueToken(userID, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(a.config.TokenTTL())

	claims := jwt.MapClaims{
		"sub":     userID,
		"user_id": userID,
		"email":   email,
		"iat":     jwt.NewNumericDate(now),
		"exp":     jwt.NewNumericDate(expiresAt),
	}
	if a.config.JWTIssuer != "" {
		claims["iss"] = a.config.JWTIssuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// getTokenFromHeader extracts the token from the Authorization header.
func getTokenFromHeader(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	// Remove "Bearer " prefix if present
	const bearerPrefix = "Bearer "
	if len(auth) > len(bearerPrefix) && auth[:len(bearerPrefix)] == bearerPrefix {
		return auth[len(bearerPrefix):]
	}
	return auth
}

// resolveCaller verifies the bearer token and returns the caller identity
// string. The service never sees the token itself, only this identity.
func (a *App) resolveCaller(r *http.Request) (string, error) {
	raw := getTokenFromHeader(r)
	if raw == "" {
		return "", errors.New("missing bearer token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.config.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(a.config.JWTIssuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(a.config.JWTSecret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	for _, claim := range []string{"sub", "user_id"} {
		if id, ok := claims[claim].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errNoIdentity
}

// withCaller resolves the caller identity before invoking the handler. In
// anonymous mode every request carries the fixed "anonymous" identity; in
// authenticated mode an unresolvable identity is a 401, surfaced before any
// service call.
func (a *App) withCaller(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.config.Anonymous {
			next(w, r, models.AnonymousOwner)
			return
		}
		callerID, err := a.resolveCaller(r)
		if err != nil {
			a.log.Debug().Err(err).Str("path", r.URL.Path).Msg("unauthenticated request rejected")
			respondError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next(w, r, callerID)
	}
}

// handleGenerateTestToken issues a JWT for the identity in the request
// body. Development aid only: there is no credential check, exactly like
// the original test-token endpoint.
//
// POST /auth/generate-test-token
func (a *App) handleGenerateTestToken(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.UserID == "" {
		req.UserID = "test-user-123"
	}
	if req.Email == "" {
		req.Email = "test@example.com"
	}

	token, expiresAt, err := a.IssueToken(req.UserID, req.Email)
	if err != nil {
		a.log.Error().Err(err).Msg("token issuance failed")
		respondError(w, http.StatusBadRequest, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		UserID:    req.UserID,
		Email:     req.Email,
		ExpiresAt: expiresAt,
	})
}

// handleTestToken issues a JWT for a fixed default test identity.
//
// GET /auth/test-token
func (a *App) handleTestToken(w http.ResponseWriter, r *http.Request) {
	token, expiresAt, err := a.IssueToken("test-user-123", "test@example.com")
	if err != nil {
		a.log.Error().Err(err).Msg("token issuance failed")
		respondError(w, http.StatusBadRequest, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		UserID:    "test-user-123",
		Email:     "test@example.com",
		ExpiresAt: expiresAt,
	})
}
