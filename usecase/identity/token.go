package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Poco-dev/todo-bot/domain"
)

// TokenSigner mints and verifies the HS256 tokens embedded in launch links.
type TokenSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenSigner(secret, issuer string, ttl time.Duration) *TokenSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenSigner{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Mint issues a launch token carrying the owner id and display name.
func (s *TokenSigner) Mint(owner domain.Identity) (string, error) {
	if owner.IsZero() {
		return "", domain.ErrInvalidPayload
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  owner.ID,
		"username": owner.Username,
		"iss":      s.issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses a launch token and extracts the embedded identity.
func (s *TokenSigner) Verify(tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	if !token.Valid {
		return domain.Identity{}, fmt.Errorf("invalid launch token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	id, ok := claims["user_id"].(float64)
	if !ok || id == 0 {
		return domain.Identity{}, fmt.Errorf("launch token has no user id")
	}

	owner := domain.Identity{ID: int64(id)}
	if username, ok := claims["username"].(string); ok {
		owner.Username = username
	}
	return owner, nil
}
