package dto

import "time"

// RegisterRequest alta de una concesionaria con su primer usuario administrador.
type RegisterRequest struct {
	CompanyName     string `json:"nome_empresa"`
	Name            string `json:"nome_usuario"`
	Email           string `json:"email"`
	Phone           string `json:"telefone"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmar_senha"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"id_empresa"`
	CompanyName string    `json:"nome_empresa,omitempty"`
	Name        string    `json:"nome_usuario"`
	Email       string    `json:"email"`
	Phone       string    `json:"telefone,omitempty"`
	Plan        string    `json:"plano"`
	Status      string    `json:"status"`
	Role        string    `json:"cargo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateProfileRequest edición del perfil propio.
type UpdateProfileRequest struct {
	Name  string `json:"nome_usuario"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

// AddMemberRequest alta de un miembro en la empresa del administrador.
type AddMemberRequest struct {
	Name     string `json:"nome_usuario"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Phone    string `json:"telefone"`
	Status   string `json:"status"` // default ativo
	Role     string `json:"cargo"`  // default convidado
}

// UpdateMemberStatusRequest cambio de estado de un miembro.
type UpdateMemberStatusRequest struct {
	Status string `json:"status"`
}

// UpdateMemberRoleRequest cambio de cargo de un miembro.
type UpdateMemberRoleRequest struct {
	Role string `json:"cargo"`
}
