package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/bodegas-api/internal/application/dto"
	"github.com/jhoicas/bodegas-api/internal/domain"
	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
	"github.com/jhoicas/bodegas-api/pkg/logger"
)

// IdempotencyTTL tiempo durante el cual una Idempotency-Key bloquea reaplicar el mismo cambio.
const IdempotencyTTL = 24 * time.Hour

// InventoryUseCase mantiene sincronizadas las vistas por ítem y por categoría y resuelve
// las lecturas eligiendo la vista más específica.
type InventoryUseCase struct {
	repo          repository.InventoryRepository
	warehouseRepo repository.WarehouseRepository
	guard         IdempotencyGuard
	tracer        trace.Tracer
	log           *logger.Logger
	maxAttempts   int
	newID         func() string
}

// Options parámetros opcionales del caso de uso.
type Options struct {
	// MaxAttempts número de intentos del compare-and-set en AdjustAmount (mínimo 1).
	MaxAttempts int
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	repo repository.InventoryRepository,
	warehouseRepo repository.WarehouseRepository,
	guard IdempotencyGuard,
	tracer trace.Tracer,
	log *logger.Logger,
	opts Options,
) *InventoryUseCase {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &InventoryUseCase{
		repo:          repo,
		warehouseRepo: warehouseRepo,
		guard:         guard,
		tracer:        tracer,
		log:           log.Component("inventory"),
		maxAttempts:   opts.MaxAttempts,
		newID:         func() string { return uuid.New().String() },
	}
}

// AddItem crea un registro con un inventory_id nuevo (UUIDv4) y lo escribe en ambas vistas.
// No se comprueba colisión del UUID.
func (uc *InventoryUseCase) AddItem(ctx context.Context, warehouseID string, in dto.AddInventoryRequest) (string, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.AddItem", trace.WithAttributes(attribute.String("warehouse.id", warehouseID)))
	defer span.End()

	item := &entity.InventoryItem{
		WarehouseID: strings.TrimSpace(warehouseID),
		ProductID:   strings.TrimSpace(in.ID),
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
	}
	if item.WarehouseID == "" || item.ProductID == "" || item.Category == "" || in.Amount == nil || *in.Amount < 0 || *in.Amount > entity.MaxAmount {
		return "", domain.ErrInvalidInput
	}
	item.Amount = *in.Amount

	wh, err := uc.warehouseRepo.GetByID(ctx, item.WarehouseID)
	if err != nil {
		return "", uc.storageFailure(span, err)
	}
	if wh == nil {
		return "", domain.ErrNotFound
	}

	item.InventoryID = uc.newID()
	if err := uc.repo.Add(ctx, item); err != nil {
		uc.log.Error().Err(err).
			Str("warehouse_id", item.WarehouseID).
			Str("inventory_id", item.InventoryID).
			Msg("alta de inventario fallida")
		return "", uc.storageFailure(span, err)
	}
	span.SetAttributes(attribute.String("inventory.id", item.InventoryID))
	return item.InventoryID, nil
}

// AdjustAmount suma delta (con signo) a la cantidad del registro y la replica en ambas vistas.
// Un resultado negativo o mayor que entity.MaxAmount devuelve domain.ErrInvalidChange.
// Usa compare-and-set sobre la cantidad leída; si otro escritor la cambió entre la lectura y
// la escritura, vuelve a leer y reintenta hasta maxAttempts.
func (uc *InventoryUseCase) AdjustAmount(ctx context.Context, warehouseID, inventoryID string, delta int) (int, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.AdjustAmount", trace.WithAttributes(
		attribute.String("warehouse.id", warehouseID),
		attribute.String("inventory.id", inventoryID),
		attribute.Int("inventory.delta", delta),
	))
	defer span.End()

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		item, err := uc.repo.Get(ctx, warehouseID, inventoryID)
		if err != nil {
			return 0, uc.storageFailure(span, err)
		}
		if item == nil {
			return 0, domain.ErrNotFound
		}
		// item.Amount está en [0, MaxAmount]: ni la resta ni la negación desbordan.
		if delta > entity.MaxAmount-item.Amount || delta < -item.Amount {
			return 0, domain.ErrInvalidChange
		}
		newAmount := item.Amount + delta

		applied, err := uc.repo.CompareAndSetAmount(ctx, item, newAmount)
		if err != nil {
			uc.log.Error().Err(err).
				Str("warehouse_id", warehouseID).
				Str("inventory_id", inventoryID).
				Int("new_amount", newAmount).
				Msg("actualización de cantidad fallida")
			return 0, uc.storageFailure(span, err)
		}
		if applied {
			span.SetAttributes(attribute.Int("inventory.attempts", attempt))
			return newAmount, nil
		}
		uc.log.Debug().
			Str("inventory_id", inventoryID).
			Int("attempt", attempt).
			Msg("compare-and-set perdido, reintentando")
	}

	uc.log.Warn().
		Str("warehouse_id", warehouseID).
		Str("inventory_id", inventoryID).
		Int("attempts", uc.maxAttempts).
		Msg("reintentos agotados en cambio de cantidad")
	span.SetStatus(codes.Error, domain.ErrConcurrentUpdate.Error())
	return 0, domain.ErrConcurrentUpdate
}

// ChangeAmount aplica AdjustAmount protegido por una clave de idempotencia opcional.
// Si la clave ya se usó, no se reaplica el delta y se devuelve la cantidad actual con replayed=true.
func (uc *InventoryUseCase) ChangeAmount(ctx context.Context, warehouseID, inventoryID string, delta int, idempotencyKey string) (*dto.ChangeAmountResponse, error) {
	if idempotencyKey == "" || uc.guard == nil {
		amount, err := uc.AdjustAmount(ctx, warehouseID, inventoryID, delta)
		if err != nil {
			return nil, err
		}
		return &dto.ChangeAmountResponse{Message: "cantidad actualizada", Amount: amount}, nil
	}

	key := "idem:amount:" + warehouseID + ":" + inventoryID + ":" + idempotencyKey
	claimed, err := uc.guard.Claim(ctx, key, IdempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	if !claimed {
		amount, err := uc.GetAmount(ctx, warehouseID, inventoryID)
		if err != nil {
			return nil, err
		}
		return &dto.ChangeAmountResponse{Message: "cambio ya aplicado", Amount: amount.Amount, Replayed: true}, nil
	}

	amount, err := uc.AdjustAmount(ctx, warehouseID, inventoryID, delta)
	if err != nil {
		// Sólo se libera si el cambio no llegó a escribirse: un fallo de almacenamiento
		// pudo dejar la vista por ítem ya actualizada.
		if !errors.Is(err, domain.ErrStorageFailure) {
			if relErr := uc.guard.Release(ctx, key); relErr != nil {
				uc.log.Warn().Err(relErr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		return nil, err
	}
	return &dto.ChangeAmountResponse{Message: "cantidad actualizada", Amount: amount}, nil
}

// ListItems lista los registros de una bodega. Con category lee la vista por categoría;
// sin ella, la vista por ítem.
func (uc *InventoryUseCase) ListItems(ctx context.Context, warehouseID, category string) ([]dto.InventoryItemResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.ListItems", trace.WithAttributes(
		attribute.String("warehouse.id", warehouseID),
		attribute.String("inventory.category", category),
	))
	defer span.End()

	var (
		list []*entity.InventoryItem
		err  error
	)
	if category != "" {
		list, err = uc.repo.ListByCategory(ctx, warehouseID, category)
	} else {
		list, err = uc.repo.ListByWarehouse(ctx, warehouseID)
	}
	if err != nil {
		return nil, uc.storageFailure(span, err)
	}
	out := make([]dto.InventoryItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

// GetItem busca un registro por inventory_id en la vista por ítem.
func (uc *InventoryUseCase) GetItem(ctx context.Context, warehouseID, inventoryID string) (*dto.InventoryItemResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.GetItem")
	defer span.End()

	item, err := uc.repo.Get(ctx, warehouseID, inventoryID)
	if err != nil {
		return nil, uc.storageFailure(span, err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	out := toItemResponse(item)
	return &out, nil
}

// GetAmount devuelve sólo la cantidad del registro.
func (uc *InventoryUseCase) GetAmount(ctx context.Context, warehouseID, inventoryID string) (*dto.AmountResponse, error) {
	item, err := uc.GetItem(ctx, warehouseID, inventoryID)
	if err != nil {
		return nil, err
	}
	return &dto.AmountResponse{Amount: item.Amount}, nil
}

// Reconcile repara la vista por categoría a partir de la vista por ítem: toda fila ausente o
// distinta (producto, cantidad, descripción) se reescribe. Devuelve cuántas filas se repararon.
func (uc *InventoryUseCase) Reconcile(ctx context.Context, warehouseID string) (int, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.Reconcile", trace.WithAttributes(attribute.String("warehouse.id", warehouseID)))
	defer span.End()

	items, err := uc.repo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return 0, uc.storageFailure(span, err)
	}

	byCategory := make(map[string][]*entity.InventoryItem)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	repaired := 0
	for category, group := range byCategory {
		view, err := uc.repo.ListByCategory(ctx, warehouseID, category)
		if err != nil {
			return repaired, uc.storageFailure(span, err)
		}
		current := make(map[string]*entity.InventoryItem, len(view))
		for _, v := range view {
			current[v.InventoryID] = v
		}
		for _, it := range group {
			if it.SameView(current[it.InventoryID]) {
				continue
			}
			if err := uc.repo.SyncCategoryView(ctx, it); err != nil {
				return repaired, uc.storageFailure(span, err)
			}
			repaired++
		}
	}

	if repaired > 0 {
		uc.log.Info().Str("warehouse_id", warehouseID).Int("repaired", repaired).Msg("vista por categoría reparada")
	}
	span.SetAttributes(attribute.Int("inventory.repaired", repaired))
	return repaired, nil
}

func (uc *InventoryUseCase) storageFailure(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}

func toItemResponse(it *entity.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:          it.ProductID,
		InventoryID: it.InventoryID,
		Amount:      it.Amount,
		Description: it.Description,
		Category:    it.Category,
	}
}
