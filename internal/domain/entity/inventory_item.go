package entity

import "math"

// MaxAmount cantidad máxima de un registro: ambas vistas guardan amount como entero de 32 bits.
const MaxAmount = math.MaxInt32

// InventoryItem es un registro de inventario dentro de una bodega.
// Se persiste en dos vistas desnormalizadas: por ítem (partición = bodega) y por categoría
// (partición = bodega + categoría). Ambas deben contener el mismo ProductID, Amount y Description.
type InventoryItem struct {
	WarehouseID string
	InventoryID string // UUID generado en el alta; inmutable
	ProductID   string
	Category    string
	Amount      int // entre 0 y MaxAmount
	Description string
}

// SameView indica si otro registro coincide en los campos que replican ambas vistas.
func (i *InventoryItem) SameView(other *InventoryItem) bool {
	if i == nil || other == nil {
		return false
	}
	return i.ProductID == other.ProductID &&
		i.Amount == other.Amount &&
		i.Description == other.Description
}
