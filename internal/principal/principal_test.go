package principal

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromToken(t *testing.T) {
	id := uuid.New()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.String(),
		"email": "landlord@example.com",
		"role":  "LANDLORD",
	})

	p, err := FromToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, p.UserID)
	assert.Equal(t, "landlord@example.com", p.Email)
	assert.True(t, p.IsLandlord())
	assert.False(t, p.IsTenant())
}

func TestFromTokenRejectsIncompleteClaims(t *testing.T) {
	cases := map[string]jwt.MapClaims{
		"missing sub":  {"role": "TENANT"},
		"bad sub":      {"sub": "nope", "role": "TENANT"},
		"missing role": {"sub": uuid.NewString()},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromToken(jwt.NewWithClaims(jwt.SigningMethodHS256, claims))
			assert.Error(t, err)
		})
	}

	_, err := FromToken(nil)
	assert.ErrorIs(t, err, ErrMissing)
}
