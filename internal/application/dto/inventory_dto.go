package dto

// AddInventoryRequest body para PUT /warehouses/{wid}/inventory. ID es el ID del producto.
type AddInventoryRequest struct {
	ID          string `json:"id"`
	Amount      *int   `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// InventoryItemResponse un registro de inventario tal como lo ve el cliente.
// ID es el producto; InventoryID el identificador del registro en la bodega.
type InventoryItemResponse struct {
	ID          string `json:"id"`
	InventoryID string `json:"inventory_id"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// AmountResponse salida de GET .../amount.
type AmountResponse struct {
	Amount int `json:"amount"`
}

// ChangeAmountRequest body para POST .../amount/change. By es un delta con signo.
type ChangeAmountRequest struct {
	By *int `json:"by"`
}

// ChangeAmountResponse resultado de un cambio de cantidad.
// Replayed=true cuando la Idempotency-Key ya había sido usada y el cambio no se reaplicó.
type ChangeAmountResponse struct {
	Message  string `json:"message"`
	Amount   int    `json:"amount"`
	Replayed bool   `json:"replayed,omitempty"`
}

// ReconcileResponse resultado de la reparación de la vista por categoría.
type ReconcileResponse struct {
	Repaired int `json:"repaired"`
}
