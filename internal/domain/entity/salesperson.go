package entity

// Salesperson vendedor asignable a agendamientos.
type Salesperson struct {
	ID        string
	CompanyID string
	Name      string
	Phone     string
	Position  string
}
