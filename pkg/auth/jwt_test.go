package auth

import (
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:         "unit-test-secret-unit-test-secret",
		AccessTokenTTL: time.Hour,
		Issuer:         "medstock-test",
	})
}

func TestIssueAndValidate(t *testing.T) {
	m := newManager()
	in := &domain.Claims{UserID: uuid.New(), Name: "John Smith", Role: domain.RolePharmacist}

	tok, err := m.Issue(in)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)

	out, err := m.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestValidate_Expired(t *testing.T) {
	m := newManager()
	tok, err := m.Issue(&domain.Claims{UserID: uuid.New(), Name: "Jane Doe", Role: domain.RoleNurse})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Validate(tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := newManager().Issue(&domain.Claims{UserID: uuid.New(), Name: "Jane Doe", Role: domain.RoleAdmin})
	require.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{Secret: "another-secret", AccessTokenTTL: time.Hour, Issuer: "medstock-test"})
	_, err = other.Validate(tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = other.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssue_RejectsUnknownRole(t *testing.T) {
	_, err := newManager().Issue(&domain.Claims{UserID: uuid.New(), Name: "X", Role: "janitor"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestValidate_RejectsBlankName(t *testing.T) {
	m := newManager()
	tok, err := m.Issue(&domain.Claims{UserID: uuid.New(), Name: "   ", Role: domain.RolePharmacist})
	require.NoError(t, err)

	_, err = m.Validate(tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
