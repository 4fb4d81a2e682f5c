package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/motordesk/motordesk/pkg/model"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Identity is the authenticated caller as seen by everything behind the
// auth middleware.
type Identity struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	IsAdmin   bool
}

type Claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id"`
	IsAdmin   bool   `json:"is_admin"`
	TokenType string `json:"token_type"`
}

type TokenManager struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(signingKey []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{signingKey: signingKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (m *TokenManager) GenerateAccessToken(user *model.User) (string, error) {
	return m.generate(user, TokenTypeAccess, m.accessTTL, uuid.NewString())
}

// GenerateRefreshToken returns the signed token and its jti, which the
// session store keys on for rotation and revocation.
func (m *TokenManager) GenerateRefreshToken(user *model.User) (string, string, error) {
	jti := uuid.NewString()
	token, err := m.generate(user, TokenTypeRefresh, m.refreshTTL, jti)
	return token, jti, err
}

func (m *TokenManager) generate(user *model.User, tokenType string, ttl time.Duration, jti string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
			Issuer:    "motordesk",
			ID:        jti,
		},
		CompanyID: user.CompanyID.String(),
		IsAdmin:   user.IsAdmin,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.signingKey)
}

func (m *TokenManager) Validate(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != expectedType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Identity decodes the claim subjects back into typed IDs.
func (c *Claims) Identity() (Identity, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	companyID, err := uuid.Parse(c.CompanyID)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, CompanyID: companyID, IsAdmin: c.IsAdmin}, nil
}
