package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jhoicas/bodegas-api/internal/application/dto"
	"github.com/jhoicas/bodegas-api/internal/application/inventory"
	"github.com/jhoicas/bodegas-api/internal/application/usecase"
	"github.com/jhoicas/bodegas-api/internal/domain/entity"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
	"github.com/jhoicas/bodegas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/bodegas-api/internal/interfaces/http"
	"github.com/jhoicas/bodegas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildTestApp(t *testing.T, repo repository.InventoryRepository, store *memory.Store) *fiber.App {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC: usecase.NewWarehouseUseCase(store, tracer),
		InventoryUC: inventory.NewInventoryUseCase(repo, store, memory.NewIdempotencyGuard(), tracer, logger.Nop(),
			inventory.Options{MaxAttempts: 3}),
		Log: logger.Nop(),
	})
	return app
}

func newApp(t *testing.T) *fiber.App {
	store := memory.NewStore()
	return buildTestApp(t, store, store)
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndAdd registra W1 y agrega un taladro; devuelve el inventory_id de la cabecera Location.
func registerAndAdd(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPut, "/warehouses", `{"id":"W1","name":"North","location":"City A"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/warehouses/W1/inventory",
		`{"id":"P1","amount":10,"description":"drill","category":"tools"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "el alta de inventario responde sin cuerpo")

	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/warehouses/W1/inventory/"), loc)
	return strings.TrimPrefix(loc, "/warehouses/W1/inventory/")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterWarehouse_CreadaYDuplicada(t *testing.T) {
	app := newApp(t)

	resp := doJSON(t, app, http.MethodPut, "/warehouses", `{"id":"W1","name":"North","location":"City A"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, dto.RegisterWarehouseResponse{ID: "W1"}, decode[dto.RegisterWarehouseResponse](t, resp))

	resp = doJSON(t, app, http.MethodPut, "/warehouses", `{"id":"W1","name":"South","location":"City B"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "WAREHOUSE_EXISTS", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodGet, "/warehouses", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []dto.WarehouseResponse{{ID: "W1", Name: "North", Location: "City A"}},
		decode[[]dto.WarehouseResponse](t, resp))
}

func TestRegisterWarehouse_CuerpoInvalido(t *testing.T) {
	app := newApp(t)

	resp := doJSON(t, app, http.MethodPut, "/warehouses", `{"id":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/warehouses", `{"id":"W1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestListWarehouses_VacioEsArreglo(t *testing.T) {
	resp := doJSON(t, newApp(t), http.MethodGet, "/warehouses", "")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventario_FlujoCompleto(t *testing.T) {
	app := newApp(t)
	iid := registerAndAdd(t, app)

	resp := doJSON(t, app, http.MethodGet, "/warehouses/W1/inventory/"+iid+"/amount", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, decode[dto.AmountResponse](t, resp).Amount)

	resp = doJSON(t, app, http.MethodPost, "/warehouses/W1/inventory/"+iid+"/amount/change", `{"by":-3}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, decode[dto.ChangeAmountResponse](t, resp).Amount)

	resp = doJSON(t, app, http.MethodPost, "/warehouses/W1/inventory/"+iid+"/amount/change", `{"by":-100}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CHANGE", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodGet, "/warehouses/W1/inventory/"+iid, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.InventoryItemResponse{ID: "P1", InventoryID: iid, Amount: 7, Description: "drill", Category: "tools"},
		decode[dto.InventoryItemResponse](t, resp))

	resp = doJSON(t, app, http.MethodGet, "/warehouses/W1/inventory?category=tools", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.InventoryItemResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, 7, list[0].Amount)

	resp = doJSON(t, app, http.MethodGet, "/warehouses/W1/inventory?category=paint", "")
	assert.Empty(t, decode[[]dto.InventoryItemResponse](t, resp))

	resp = doJSON(t, app, http.MethodGet, "/warehouses/W1/inventory", "")
	assert.Len(t, decode[[]dto.InventoryItemResponse](t, resp), 1)
}

func TestInventario_NoEncontrado(t *testing.T) {
	app := newApp(t)
	registerAndAdd(t, app)

	for _, path := range []string{
		"/warehouses/W1/inventory/nope",
		"/warehouses/W1/inventory/nope/amount",
	} {
		resp := doJSON(t, app, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp := doJSON(t, app, http.MethodPost, "/warehouses/W1/inventory/nope/amount/change", `{"by":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/warehouses/W9/inventory",
		`{"id":"P1","amount":1,"description":"x","category":"tools"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChangeAmount_CuerpoInvalido(t *testing.T) {
	app := newApp(t)
	iid := registerAndAdd(t, app)
	path := "/warehouses/W1/inventory/" + iid + "/amount/change"

	for _, body := range []string{`{}`, `{"by":"5"}`, `{"by":1.5}`, `{"by":null}`} {
		resp := doJSON(t, app, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestChangeAmount_IdempotencyKey(t *testing.T) {
	app := newApp(t)
	iid := registerAndAdd(t, app)
	path := "/warehouses/W1/inventory/" + iid + "/amount/change"

	resp := doJSON(t, app, http.MethodPost, path, `{"by":5}`, apphttp.HeaderIdempotencyKey, "abc")
	first := decode[dto.ChangeAmountResponse](t, resp)
	assert.Equal(t, 15, first.Amount)
	assert.False(t, first.Replayed)

	resp = doJSON(t, app, http.MethodPost, path, `{"by":5}`, apphttp.HeaderIdempotencyKey, "abc")
	again := decode[dto.ChangeAmountResponse](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 15, again.Amount)
	assert.True(t, again.Replayed)
}

func TestAddInventory_Validaciones(t *testing.T) {
	app := newApp(t)
	registerAndAdd(t, app)

	for _, body := range []string{
		`{"id":"P1","amount":-1,"description":"x","category":"tools"}`,
		`{"id":"P1","description":"x","category":"tools"}`,
		`{"amount":1,"description":"x","category":"tools"}`,
		`{"id":"P1","amount":1,"description":"x"}`,
	} {
		resp := doJSON(t, app, http.MethodPut, "/warehouses/W1/inventory", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestInventario_LimiteDeCantidad(t *testing.T) {
	app := newApp(t)
	iid := registerAndAdd(t, app)

	resp := doJSON(t, app, http.MethodPut, "/warehouses/W1/inventory",
		`{"id":"P2","amount":2147483648,"description":"x","category":"tools"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	path := "/warehouses/W1/inventory/" + iid + "/amount/change"
	resp = doJSON(t, app, http.MethodPost, path, `{"by":2147483638}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CHANGE", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodPost, path, `{"by":2147483637}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ChangeAmountResponse](t, resp)
	assert.Equal(t, 2147483647, out.Amount)
	assert.Equal(t, "cantidad actualizada", out.Message)
}

func TestAddInventory_LocationEscapaElIDDeBodega(t *testing.T) {
	app := newApp(t)
	resp := doJSON(t, app, http.MethodPut, "/warehouses", `{"id":"Sur 1/b","name":"South","location":"City B"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/warehouses/Sur%201%2Fb/inventory",
		`{"id":"P1","amount":3,"description":"saw","category":"tools"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, "/warehouses/Sur%201%2Fb/inventory/"), loc)

	resp = doJSON(t, app, http.MethodGet, loc, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[dto.InventoryItemResponse](t, resp)
	assert.Equal(t, "P1", item.ID)
	assert.Equal(t, 3, item.Amount)
}

// casAlwaysLost simula contención permanente sobre la cantidad.
type casAlwaysLost struct {
	*memory.Store
}

func (casAlwaysLost) CompareAndSetAmount(context.Context, *entity.InventoryItem, int) (bool, error) {
	return false, nil
}

// listFails simula la caída del motor en las lecturas de listado.
type listFails struct {
	*memory.Store
}

func (listFails) ListByWarehouse(context.Context, string) ([]*entity.InventoryItem, error) {
	return nil, assert.AnError
}

func TestChangeAmount_ContencionDevuelve409(t *testing.T) {
	store := memory.NewStore()
	app := buildTestApp(t, casAlwaysLost{store}, store)
	iid := registerAndAdd(t, app)

	resp := doJSON(t, app, http.MethodPost, "/warehouses/W1/inventory/"+iid+"/amount/change", `{"by":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListInventory_FalloDeAlmacenamientoDevuelve500(t *testing.T) {
	store := memory.NewStore()
	app := buildTestApp(t, listFails{store}, store)

	resp := doJSON(t, app, http.MethodGet, "/warehouses/W1/inventory", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", decode[dto.ErrorResponse](t, resp).Code)
}

func TestReconcile_Endpoint(t *testing.T) {
	store := memory.NewStore()
	app := buildTestApp(t, store, store)
	iid := registerAndAdd(t, app)
	store.SetCategoryAmount("W1", "tools", iid, 1)

	resp := doJSON(t, app, http.MethodPost, "/warehouses/W1/inventory/reconcile", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.ReconcileResponse{Repaired: 1}, decode[dto.ReconcileResponse](t, resp))

	resp = doJSON(t, app, http.MethodGet, "/warehouses/W1/inventory?category=tools", "")
	list := decode[[]dto.InventoryItemResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, 10, list[0].Amount)
}
