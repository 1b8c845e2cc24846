package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const (
	ACCESS_TOKEN  = "access"
	REFRESH_TOKEN = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

type TokenPair struct {
	AccessToken    string    `json:"access_token"`
	RefreshToken   string    `json:"refresh_token"`
	AccessExpires  time.Time `json:"access_expires"`
	RefreshExpires time.Time `json:"refresh_expires"`
	refreshClaims  *Claims
}

func signingKey() []byte {
	return []byte(settingsData.JWT_SECRET_KEY)
}

func NewClaims(user *models.User, tokenType string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    settingsData.APP_NAME,
			Subject:   user.ID.Hex(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		ID:        user.ID.Hex(),
		Name:      user.FullName(),
		Username:  user.Username,
		UserType:  user.Kind,
		TokenType: tokenType,
	}
}

func GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// ParseToken verifies the signature, the expiry and the token type
func ParseToken(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return signingKey(), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func NewTokenPair(user *models.User, now time.Time) (*TokenPair, error) {
	accessClaims := NewClaims(user, ACCESS_TOKEN, now, settingsData.ACCESS_TOKEN_TTL)
	refreshClaims := NewClaims(user, REFRESH_TOKEN, now, settingsData.REFRESH_TOKEN_TTL)

	accessToken, err := GenerateToken(accessClaims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := GenerateToken(refreshClaims)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		AccessExpires:  time.Unix(accessClaims.ExpiresAt, 0),
		RefreshExpires: time.Unix(refreshClaims.ExpiresAt, 0),
		refreshClaims:  refreshClaims,
	}, nil
}
