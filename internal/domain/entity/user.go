package entity

import (
	"strings"
	"time"
)

// Role cargo de un miembro dentro de la empresa.
type Role string

// Cargos válidos para User.
const (
	RoleAdmin       Role = "administrador"
	RoleGuest       Role = "convidado"
	RoleSDR         Role = "sdr"
	RoleManager     Role = "gestor"
	RoleSalesperson Role = "vendedor"
)

// Valid indica si el cargo es conocido.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGuest, RoleSDR, RoleManager, RoleSalesperson:
		return true
	}
	return false
}

// UserStatus estado de acceso de un miembro.
type UserStatus string

const (
	UserActive   UserStatus = "ativo"
	UserPending  UserStatus = "pendente"
	UserInactive UserStatus = "inativo"
)

// Valid indica si el estado es conocido.
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserPending || s == UserInactive
}

// User representa un miembro de una Company.
type User struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string // siempre en minúsculas
	Phone        string
	PasswordHash string // bcrypt hash, nunca plano en dominio
	Plan         string
	Status       UserStatus
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail normaliza un email para comparación sin distinción de mayúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
