// Package principal carries the authenticated caller through a request.
package principal

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localsKey = "principal"

var ErrMissing = errors.New("no authenticated principal")

type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (p Principal) IsLandlord() bool { return p.Role == "LANDLORD" }

func (p Principal) IsTenant() bool { return p.Role == "TENANT" }

// FromToken reads the principal out of a verified access token.
func FromToken(token *jwt.Token) (Principal, error) {
	if token == nil {
		return Principal{}, ErrMissing
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Principal{}, errors.New("missing sub claim")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Principal{}, err
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return Principal{}, errors.New("missing role claim")
	}
	email, _ := claims["email"].(string)

	return Principal{UserID: userID, Email: email, Role: role}, nil
}

func Set(c *fiber.Ctx, p Principal) {
	c.Locals(localsKey, p)
}

func Get(c *fiber.Ctx) (Principal, error) {
	p, ok := c.Locals(localsKey).(Principal)
	if !ok {
		return Principal{}, ErrMissing
	}
	return p, nil
}
