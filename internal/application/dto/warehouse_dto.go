package dto

// RegisterWarehouseRequest body para PUT /warehouses.
type RegisterWarehouseRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// RegisterWarehouseResponse salida del alta: sólo el ID aceptado.
type RegisterWarehouseResponse struct {
	ID string `json:"id"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
