package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

const (
	tokenIssuer   = "sharewardrobe"
	tokenAudience = "api-access"
)

// UserClaims identifies the caller. Role is advisory; the API re-reads the
// user row on every request.
type UserClaims struct {
	UserID int32     `json:"user_id"`
	Role   string    `json:"role"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(userID int32, role string) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(userID int32, role string) (string, error) {
	now := m.now()
	claims := UserClaims{
		UserID: userID,
		Role:   role,
		Type:   TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == 0 && claims.Subject != "" {
		uid, _ := strconv.Atoi(claims.Subject)
		claims.UserID = int32(uid)
	}
	return claims, nil
}
