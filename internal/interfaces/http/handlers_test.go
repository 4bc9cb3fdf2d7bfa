package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/domain"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Materiel-api/pkg/jwt"
)

func send(t *testing.T, app *fiber.App, method, path string, body interface{}, auth string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		r = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestStatusFor_ErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: quantite", domain.ErrInvalidInput), 400, "VALIDATION"},
		{fmt.Errorf("lot: %w", domain.ErrNotFound), 404, "NOT_FOUND"},
		{domain.ErrUserNotFound, 404, "NOT_FOUND"},
		{fmt.Errorf("%w: reste 2", domain.ErrInsufficientStock), 409, "INSUFFICIENT_STOCK"},
		{domain.ErrInvalidState, 409, "INVALID_STATE"},
		{domain.ErrDuplicate, 409, "DUPLICATE"},
		{fmt.Errorf("%w: prêt ouvert", domain.ErrConflict), 409, "CONFLICT"},
		{domain.ErrUnauthorized, 401, "UNAUTHORIZED"},
		{domain.ErrForbidden, 403, "FORBIDDEN"},
		{fmt.Errorf("pool cerrado"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

type memServices struct {
	items map[int64]dto.ServiceDTO
	inUse map[int64]bool
	next  int64
}

func newMemServices() *memServices {
	return &memServices{items: map[int64]dto.ServiceDTO{}, inUse: map[int64]bool{}}
}

func (m *memServices) Create(_ context.Context, in dto.ServiceDTO) (*dto.ServiceDTO, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: nom_service requis", domain.ErrInvalidInput)
	}
	m.next++
	in.ID = m.next
	m.items[in.ID] = in
	return &in, nil
}

func (m *memServices) Get(_ context.Context, id int64) (*dto.ServiceDTO, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: service %d", domain.ErrNotFound, id)
	}
	return &s, nil
}

func (m *memServices) Update(ctx context.Context, id int64, in dto.ServiceDTO) (*dto.ServiceDTO, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return nil, err
	}
	in.ID = id
	m.items[id] = in
	return &in, nil
}

func (m *memServices) Delete(ctx context.Context, id int64) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	if m.inUse[id] {
		return fmt.Errorf("service: %w", domain.ErrConflict)
	}
	delete(m.items, id)
	return nil
}

func (m *memServices) List(context.Context) ([]dto.ServiceDTO, error) {
	out := make([]dto.ServiceDTO, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, s)
	}
	return out, nil
}

func (m *memServices) Count(context.Context) (int, error) { return len(m.items), nil }

func catalogApp(m *memServices) *fiber.App {
	app := fiber.New()
	NewCatalogHandler[dto.ServiceDTO, dto.ServiceDTO](m).register(app.Group("/service"), func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestCatalogHandler_CRUD(t *testing.T) {
	m := newMemServices()
	app := catalogApp(m)

	resp, body := send(t, app, http.MethodPost, "/service", dto.ServiceDTO{Name: "Pédiatrie"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.ServiceDTO
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, int64(1), created.ID)

	resp, body = send(t, app, http.MethodPut, "/service/1", dto.ServiceDTO{Name: "Maternité"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Maternité")

	resp, body = send(t, app, http.MethodGet, "/service/count/count", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":1}`, string(body))

	resp, _ = send(t, app, http.MethodDelete, "/service/1", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, m.items)
}

func TestCatalogHandler_Errores(t *testing.T) {
	m := newMemServices()
	m.items[2] = dto.ServiceDTO{ID: 2, Name: "Urgences"}
	m.inUse[2] = true
	app := catalogApp(m)

	resp, body := send(t, app, http.MethodGet, "/service/99", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	resp, body = send(t, app, http.MethodGet, "/service/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = send(t, app, http.MethodPost, "/service", "{pas du json", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, body))

	resp, body = send(t, app, http.MethodPost, "/service", dto.ServiceDTO{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = send(t, app, http.MethodDelete, "/service/2", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "un service référencé ne se supprime pas")
	assert.Equal(t, "CONFLICT", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

type stubLedger struct {
	ledgerService
	stock       int
	gotLoan     dto.CreateConsumableLoanRequest
	gotReturn   *dto.ReturnDateRequest
	exhaustedID int64
}

func (s *stubLedger) RecordLoan(_ context.Context, in dto.CreateConsumableLoanRequest) (*dto.ConsumableLoanResult, error) {
	s.gotLoan = in
	if in.Quantity > s.stock {
		return nil, fmt.Errorf("%w: reste %d", domain.ErrInsufficientStock, s.stock)
	}
	s.stock -= in.Quantity
	cid := in.ConsumableID
	return &dto.ConsumableLoanResult{
		Loan:       dto.LoanResponse{ID: 1, ConsumableID: &cid, Quantity: in.Quantity},
		Consumable: dto.ConsumableResponse{ID: cid, Quantity: s.stock},
	}, nil
}

func (s *stubLedger) MarkExhausted(_ context.Context, id int64, in dto.ReturnDateRequest) (*dto.ConsumableLoanResult, error) {
	s.exhaustedID = id
	s.gotReturn = &in
	return &dto.ConsumableLoanResult{Loan: dto.LoanResponse{ID: id}}, nil
}

func ledgerApp(s *stubLedger) *fiber.App {
	app := fiber.New()
	h := NewLedgerHandler(s)
	app.Post("/pret_consommable", h.CreateLoan)
	app.Put("/epuise/:id", h.MarkExhausted)
	return app
}

func TestLedgerHandler_CreateLoan(t *testing.T) {
	s := &stubLedger{stock: 10}
	app := ledgerApp(s)

	resp, body := send(t, app, http.MethodPost, "/pret_consommable",
		`{"id_consommable":3,"id_service":5,"quantite_pret":4,"PU_envoie":"12.5"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	require.NotNil(t, s.gotLoan.UnitPrice)
	assert.Equal(t, "12.5", s.gotLoan.UnitPrice.String())

	var out dto.ConsumableLoanResult
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 6, out.Consumable.Quantity)
}

func TestLedgerHandler_CreateLoan_StockInsuffisant(t *testing.T) {
	s := &stubLedger{stock: 2}
	app := ledgerApp(s)

	resp, body := send(t, app, http.MethodPost, "/pret_consommable", dto.CreateConsumableLoanRequest{ConsumableID: 3, ServiceID: 5, Quantity: 4}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))
	assert.Equal(t, 2, s.stock, "le stock ne bouge pas")
}

func TestLedgerHandler_Epuise_SinCuerpo(t *testing.T) {
	s := &stubLedger{}
	app := ledgerApp(s)

	resp, _ := send(t, app, http.MethodPut, "/epuise/8", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(8), s.exhaustedID)
	require.NotNil(t, s.gotReturn)
	assert.Nil(t, s.gotReturn.ReturnDate, "sin cuerpo la fecha la fija el caso de uso")
}

// ──────────────────────────────────────────────────────────────────────────────
// Material
// ──────────────────────────────────────────────────────────────────────────────

type stubEquipment struct {
	equipmentService
	openLoan bool
}

func (s *stubEquipment) DeleteLot(_ context.Context, id int64) (*dto.EquipmentLotResponse, error) {
	if s.openLoan {
		return nil, fmt.Errorf("%w: le lot A001 est actuellement prêté", domain.ErrConflict)
	}
	return &dto.EquipmentLotResponse{ID: id, MaterialID: 1, MaterialName: "Lit", Serial: "A001", Condition: "BON"}, nil
}

func (s *stubEquipment) DeleteLoan(_ context.Context, id int64) (*dto.LoanResponse, error) {
	lot, svc := int64(4), int64(10)
	return &dto.LoanResponse{ID: id, LotID: &lot, LotSerial: "A001", ServiceID: &svc, MaterialName: "Lit"}, nil
}

func equipmentApp(s *stubEquipment) *fiber.App {
	app := fiber.New()
	h := NewEquipmentHandler(s)
	app.Delete("/lot/:id", h.DeleteLot)
	app.Delete("/pret/:id", h.DeleteLoan)
	return app
}

func TestEquipmentHandler_DeleteLot_DevuelveLote(t *testing.T) {
	app := equipmentApp(&stubEquipment{})

	resp, body := send(t, app, http.MethodDelete, "/lot/4", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.EquipmentLotResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(4), out.ID)
	assert.Equal(t, "A001", out.Serial)
	assert.Equal(t, "BON", out.Condition)
}

func TestEquipmentHandler_DeleteLot_PrestamoAbierto(t *testing.T) {
	app := equipmentApp(&stubEquipment{openLoan: true})

	resp, body := send(t, app, http.MethodDelete, "/lot/4", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))
}

func TestEquipmentHandler_DeleteLoan_DevuelvePrestamo(t *testing.T) {
	app := equipmentApp(&stubEquipment{})

	resp, body := send(t, app, http.MethodDelete, "/pret/9", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoanResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(9), out.ID)
	require.NotNil(t, out.LotID)
	assert.Equal(t, int64(4), *out.LotID)
	assert.Equal(t, "Lit", out.MaterialName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

type stubReports struct {
	reportService
	gotService int64
	gotClass   *int64
	gotYear    string
	gotLimit   int
	auto       bool
}

func (s *stubReports) ServiceEquipmentInventory(_ context.Context, serviceID int64, classID *int64, year string) (*dto.InventoryDTO, error) {
	s.gotService, s.gotClass, s.gotYear = serviceID, classID, year
	return &dto.InventoryDTO{}, nil
}

func (s *stubReports) InventoryPDF(_ context.Context, serviceID int64, classID *int64, year string) ([]byte, error) {
	s.gotService, s.gotClass, s.gotYear = serviceID, classID, year
	return []byte("%PDF-1.3"), nil
}

func (s *stubReports) TopConsumables(_ context.Context, serviceID int64, limit int) (*dto.TopConsumablesDTO, error) {
	s.gotService, s.gotLimit = serviceID, limit
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit", domain.ErrInvalidInput)
	}
	return &dto.TopConsumablesDTO{ServiceID: serviceID, Limit: limit}, nil
}

func (s *stubReports) MonthlyConsumableReportAuto(_ context.Context, serviceID int64) (*dto.MonthlyReportDTO, error) {
	s.gotService, s.auto = serviceID, true
	return &dto.MonthlyReportDTO{ServiceID: serviceID}, nil
}

func reportApp(s *stubReports) *fiber.App {
	app := fiber.New()
	h := NewReportHandler(s)
	app.Get("/inventaire/:id/pdf", h.InventoryPDF)
	app.Get("/inventaire/:id/:id_classe/pdf", h.InventoryPDF)
	app.Get("/inventaire/:id/:id_classe?", h.Inventory)
	app.Get("/depense/:serviceId/auto", h.MonthlyAuto)
	app.Get("/depense/:serviceId/top", h.Top)
	return app
}

func TestReportHandler_InventarioParametros(t *testing.T) {
	s := &stubReports{}
	app := reportApp(s)

	resp, _ := send(t, app, http.MethodGet, "/inventaire/3?annee=2024", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), s.gotService)
	assert.Nil(t, s.gotClass)
	assert.Equal(t, "2024", s.gotYear)

	resp, _ = send(t, app, http.MethodGet, "/inventaire/3/7", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, s.gotClass)
	assert.Equal(t, int64(7), *s.gotClass)

	resp, _ = send(t, app, http.MethodGet, "/inventaire/3/x", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportHandler_InventarioPDF(t *testing.T) {
	s := &stubReports{}
	app := reportApp(s)

	resp, body := send(t, app, http.MethodGet, "/inventaire/4/pdf", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventaire_service_4.pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	assert.Nil(t, s.gotClass)

	resp, _ = send(t, app, http.MethodGet, "/inventaire/4/2/pdf", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, s.gotClass)
	assert.Equal(t, int64(2), *s.gotClass)
}

func TestReportHandler_Depense(t *testing.T) {
	s := &stubReports{}
	app := reportApp(s)

	resp, _ := send(t, app, http.MethodGet, "/depense/5/top?limit=20", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 20, s.gotLimit)

	resp, _ = send(t, app, http.MethodGet, "/depense/5/top", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, s.gotLimit, "le défaut (10) est appliqué par le cas d'usage")

	resp, _ = send(t, app, http.MethodGet, "/depense/5/top?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, http.MethodGet, "/depense/6/auto", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, s.auto)
	assert.Equal(t, int64(6), s.gotService)
}

// ──────────────────────────────────────────────────────────────────────────────
// Router: autenticación y permisos antes de llegar a los casos de uso
// ──────────────────────────────────────────────────────────────────────────────

func routerApp() *fiber.App {
	app := fiber.New()
	Router(app, RouterDeps{JWTSecret: "router-secret"})
	return app
}

func bearer(t *testing.T, accountType string) string {
	t.Helper()
	tok, err := pkgjwt.Generate("router-secret", pkgjwt.Claims{AccountID: 1, Pseudo: "x", Type: accountType}, "test", 5)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRouter_Permisos(t *testing.T) {
	app := routerApp()

	resp, _ := send(t, app, http.MethodGet, "/api/dash", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin token")

	resp, _ = send(t, app, http.MethodPost, "/api/consommable", dto.ConsumableRequest{Name: "Gants"}, bearer(t, entity.AccountService))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "catálogo: mutación solo admin")

	resp, _ = send(t, app, http.MethodPost, "/api/pret/envoi_plusieur", dto.DispatchRandomLotsRequest{}, bearer(t, entity.AccountServiceVue))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "envío de lotes solo admin")

	// un SERVICE pasa el guard: el id inválido se rechaza en el handler
	resp, _ = send(t, app, http.MethodPut, "/api/epuise/abc", nil, bearer(t, entity.AccountService))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, http.MethodPut, "/api/lot/abc/etat", nil, bearer(t, entity.AccountService))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, http.MethodDelete, "/api/lot/abc", nil, bearer(t, entity.AccountDirecteur))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "DIRECTEUR pasa el guard admin")
}

func TestRouter_Me(t *testing.T) {
	app := routerApp()

	resp, body := send(t, app, http.MethodGet, "/api/me", nil, bearer(t, entity.AccountResponsable))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var acc dto.AccountResponse
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, int64(1), acc.ID)
	assert.Equal(t, entity.AccountResponsable, acc.Type)
	assert.Nil(t, acc.PersonID)
}
