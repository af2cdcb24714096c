// Package session modela la sesión autenticada que viaja explícitamente en el
// context.Context de cada operación. No existe estado de sesión global.
package session

import (
	"context"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
)

// Session identidad y alcance del usuario que ejecuta la operación.
type Session struct {
	UserID    string
	CompanyID string
	Role      entity.Role
}

// Valid indica si la sesión tiene usuario y empresa.
func (s Session) Valid() bool {
	return s.UserID != "" && s.CompanyID != ""
}

// CanWrite indica si el cargo puede modificar leads, agendamientos y estoque.
func (s Session) CanWrite() bool {
	return s.Role != entity.RoleGuest
}

// IsAdmin indica si la sesión pertenece a un administrador.
func (s Session) IsAdmin() bool {
	return s.Role == entity.RoleAdmin
}

type ctxKey struct{}

// WithSession devuelve un contexto derivado que transporta la sesión.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extrae la sesión del contexto.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok && s.Valid()
}

// Require devuelve la sesión o ErrUnauthorized si no hay una válida.
func Require(ctx context.Context) (Session, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return Session{}, domain.ErrUnauthorized
	}
	return s, nil
}

// RequireWriter devuelve la sesión si puede escribir; ErrForbidden en caso contrario.
func RequireWriter(ctx context.Context) (Session, error) {
	s, err := Require(ctx)
	if err != nil {
		return s, err
	}
	if !s.CanWrite() {
		return s, domain.ErrForbidden
	}
	return s, nil
}

// RequireAdmin devuelve la sesión si es administrador; ErrForbidden en caso contrario.
func RequireAdmin(ctx context.Context) (Session, error) {
	s, err := Require(ctx)
	if err != nil {
		return s, err
	}
	if !s.IsAdmin() {
		return s, domain.ErrForbidden
	}
	return s, nil
}
