package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/bodegas-api/internal/application/dto"
	"github.com/jhoicas/bodegas-api/internal/domain"
	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
)

// WarehouseUseCase registro y consulta de bodegas.
type WarehouseUseCase struct {
	repo   repository.WarehouseRepository
	tracer trace.Tracer
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, tracer trace.Tracer) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, tracer: tracer}
}

// Register da de alta una bodega con un ID aportado por el cliente.
// Un ID ya registrado devuelve domain.ErrConflict y deja intacta la bodega existente.
func (uc *WarehouseUseCase) Register(ctx context.Context, in dto.RegisterWarehouseRequest) (*dto.RegisterWarehouseResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "warehouse.Register", trace.WithAttributes(attribute.String("warehouse.id", in.ID)))
	defer span.End()

	w := &entity.Warehouse{
		ID:       strings.TrimSpace(in.ID),
		Name:     strings.TrimSpace(in.Name),
		Location: strings.TrimSpace(in.Location),
	}
	if w.ID == "" || w.Name == "" || w.Location == "" {
		return nil, domain.ErrInvalidInput
	}

	created, err := uc.repo.CreateIfAbsent(ctx, w)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	if !created {
		return nil, domain.ErrConflict
	}
	return &dto.RegisterWarehouseResponse{ID: w.ID}, nil
}

// ListAll devuelve todas las bodegas, sin orden garantizado.
func (uc *WarehouseUseCase) ListAll(ctx context.Context) ([]dto.WarehouseResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "warehouse.ListAll")
	defer span.End()

	list, err := uc.repo.ListAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, toWarehouseResponse(w))
	}
	return out, nil
}

func toWarehouseResponse(w *entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:       w.ID,
		Name:     w.Name,
		Location: w.Location,
	}
}
