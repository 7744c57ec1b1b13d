// Package auth issues and validates the API's HS256 session tokens and
// carries the request-level authentication middleware.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuer identifies tokens minted by this service; tokens carrying any
// other issuer are rejected even when signed with the same secret.
const tokenIssuer = "advisor-verify-api"

// Gin context keys populated by JWTMiddleware.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Token use values, carried as a private claim so a refresh token can never
// pass as an access token.
const (
	useAccess  = "access"
	useRefresh = "refresh"
)

// Claims are the token claims for an authenticated API user.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	TokenUse string    `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

// JWTService mints and validates the service's tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a token service around the shared signing secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// GenerateToken mints an access token for the given identity.
func (j *JWTService) GenerateToken(claims Claims) (string, time.Time, error) {
	return j.sign(claims, useAccess, accessTokenTTL)
}

// GenerateRefreshToken mints a long-lived refresh token.
func (j *JWTService) GenerateRefreshToken(claims Claims) (string, time.Time, error) {
	return j.sign(claims, useRefresh, refreshTokenTTL)
}

func (j *JWTService) sign(claims Claims, use string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.TokenUse = use
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   claims.UserID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses an access token and returns its claims.
func (j *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, useAccess)
}

// ValidateRefreshToken parses a refresh token and returns its claims. An
// access token is rejected here even though it shares the signing key.
func (j *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, useRefresh)
}

func (j *JWTService) parse(tokenString, wantUse string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.TokenUse != wantUse {
		return nil, fmt.Errorf("token not valid for %s use", wantUse)
	}
	return claims, nil
}

// JWTMiddleware authenticates requests from the auth_token cookie, falling
// back to a bearer Authorization header, and stores the caller's identity
// on the request context.
func JWTMiddleware(secret string) gin.HandlerFunc {
	service := NewJWTService(secret)
	return func(c *gin.Context) {
		tokenString, ok := requestToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

func requestToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
		return cookie, true
	}
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		return "", false
	}
	return token, true
}

// CSRFMiddleware enforces the double-submit cookie pattern on state-changing
// requests: the csrf_token cookie must match the X-CSRF-Token header.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie("csrf_token")
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "CSRF token required in cookie"})
			c.Abort()
			return
		}

		header := c.GetHeader("X-CSRF-Token")
		if header == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "CSRF token required in X-CSRF-Token header"})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "CSRF token mismatch"})
			c.Abort()
			return
		}

		c.Next()
	}
}
