package fakeserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/soccermanager/go/internal/models"
)

var errInvalidToken = errors.New("invalid token")

// Claims identify the caller of an authenticated request
type Claims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"user_id"`
	TeamID int64       `json:"team_id"`
	Role   models.Role `json:"role"`
}

// tokens issues and verifies HS256 bearer tokens against the server clock
type tokens struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
	parser *jwt.Parser
}

func newTokens(secret string, ttl time.Duration, clock clockwork.Clock) *tokens {
	return &tokens{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
		// expiry is checked against the injected clock below
		parser: jwt.NewParser(jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})),
	}
}

func (t *tokens) issue(userID, teamID int64, role models.Role) (string, error) {
	now := t.clock.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		TeamID: teamID,
		Role:   role,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *tokens) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := t.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errInvalidToken
	}
	if !claims.VerifyExpiresAt(t.clock.Now(), true) {
		return nil, fmt.Errorf("%w: expired", errInvalidToken)
	}
	return claims, nil
}
