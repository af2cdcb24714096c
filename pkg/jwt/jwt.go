// Package jwt emite y valida los tokens de sesión (HS256). El token transporta
// una session.Session: sub es el usuario, company_id la concesionaria y role el cargo.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
)

var (
	// ErrEmptySecret se devuelve si no se configuró JWT_SECRET.
	ErrEmptySecret = errors.New("jwt: secret vacío")
	// ErrUnknownRole el token trae un cargo que la aplicación no conoce.
	ErrUnknownRole = errors.New("jwt: cargo desconocido")
	// ErrIncompleteSession falta el usuario o la empresa.
	ErrIncompleteSession = errors.New("jwt: sesión incompleta")
)

// Claims claims registrados más empresa y cargo.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string      `json:"company_id"`
	Role      entity.Role `json:"role,omitempty"`
}

// Issue firma un token para sess válido durante ttl.
func Issue(secret, issuer string, ttl time.Duration, sess session.Session) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if !sess.Valid() {
		return "", ErrIncompleteSession
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: sess.CompanyID,
		Role:      sess.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify valida firma y expiración y devuelve la sesión del token.
// Un token sin cargo devuelve Role vacío; la autorización decide qué hacer con él.
func Verify(secret, token string) (session.Session, error) {
	if secret == "" {
		return session.Session{}, ErrEmptySecret
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return session.Session{}, fmt.Errorf("jwt: %w", err)
	}
	if claims.Role != "" && !claims.Role.Valid() {
		return session.Session{}, fmt.Errorf("%w: %q", ErrUnknownRole, claims.Role)
	}
	sess := session.Session{UserID: claims.Subject, CompanyID: claims.CompanyID, Role: claims.Role}
	if !sess.Valid() {
		return session.Session{}, ErrIncompleteSession
	}
	return sess, nil
}
