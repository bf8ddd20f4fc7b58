package entity

// Warehouse representa una bodega registrada por el cliente. Su ID lo aporta quien la registra
// y no se modifica después del alta.
type Warehouse struct {
	ID       string
	Name     string
	Location string
}
