package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
)

func TestRequire(t *testing.T) {
	_, err := session.Require(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Sesión sin empresa no cuenta como válida.
	ctx := session.WithSession(context.Background(), session.Session{UserID: "u1"})
	_, err = session.Require(ctx)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	ctx = session.WithSession(context.Background(), session.Session{UserID: "u1", CompanyID: "c1", Role: entity.RoleSalesperson})
	s, err := session.Require(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", s.CompanyID)
}

func TestRoles(t *testing.T) {
	guest := session.WithSession(context.Background(), session.Session{UserID: "u", CompanyID: "c", Role: entity.RoleGuest})
	_, err := session.RequireWriter(guest)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	seller := session.WithSession(context.Background(), session.Session{UserID: "u", CompanyID: "c", Role: entity.RoleSalesperson})
	_, err = session.RequireWriter(seller)
	assert.NoError(t, err)
	_, err = session.RequireAdmin(seller)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := session.WithSession(context.Background(), session.Session{UserID: "u", CompanyID: "c", Role: entity.RoleAdmin})
	_, err = session.RequireAdmin(admin)
	assert.NoError(t, err)
}
