package entity

import "time"

// Estados de un vehículo en estoque.
const (
	VehicleAvailable = "Disponível"
	VehicleSold      = "Vendido"
)

// Vehicle vehículo del estoque de la concesionaria.
type Vehicle struct {
	ID        string
	CompanyID string
	Brand     string
	Model     string
	Year      int
	Color     string
	Fuel      string
	Mileage   int
	Status    string // Disponível, Vendido
	CreatedAt time.Time
	UpdatedAt time.Time
}
