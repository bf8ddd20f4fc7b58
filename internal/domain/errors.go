package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrInvalidChange    = errors.New("cambio de cantidad inválido")
	ErrConcurrentUpdate = errors.New("la cantidad fue modificada concurrentemente")
	ErrStorageFailure   = errors.New("fallo de almacenamiento")
)
