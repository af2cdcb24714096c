package entity

import "time"

// Planes disponibles para una empresa.
const (
	PlanFree = "gratuito"
)

// Company representa una concesionaria (tenant del sistema).
type Company struct {
	ID        string
	Name      string
	Plan      string // gratuito
	CreatedAt time.Time
	UpdatedAt time.Time
}
