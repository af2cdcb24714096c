package dto

import "time"

// CreateVehicleRequest alta de un vehículo en el estoque.
type CreateVehicleRequest struct {
	Brand   string `json:"marca"`
	Model   string `json:"modelo"`
	Year    int    `json:"ano"`
	Color   string `json:"cor"`
	Fuel    string `json:"combustivel"`
	Mileage int    `json:"quilometragem"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID        string    `json:"id"`
	Brand     string    `json:"marca"`
	Model     string    `json:"modelo"`
	Year      int       `json:"ano"`
	Color     string    `json:"cor"`
	Fuel      string    `json:"combustivel"`
	Mileage   int       `json:"quilometragem"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
