package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghassen-kharrat/barbachli-sub000/api/middleware"
	cartsvc "github.com/ghassen-kharrat/barbachli-sub000/internal/cart"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
)

type stubCartService struct {
	cartID    uuid.UUID
	userIDs   []uuid.UUID
	added     []int
	setQty    *int
	removed   uuid.UUID
	cleared   bool
	err       error
	snapshots int
}

func newStub() *stubCartService {
	return &stubCartService{cartID: uuid.New()}
}

func (s *stubCartService) GetOrCreateCart(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	s.userIDs = append(s.userIDs, userID)
	return &models.Cart{ID: s.cartID, UserID: userID}, nil
}

func (s *stubCartService) AddLine(_ context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.added = append(s.added, quantity)
	return &models.CartItem{ID: uuid.New(), CartID: cartID, ProductID: productID, Quantity: quantity}, nil
}

func (s *stubCartService) SetLineQuantity(_ context.Context, cartID, lineID uuid.UUID, quantity int) (*models.CartItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.setQty = &quantity
	return &models.CartItem{ID: lineID, CartID: cartID, Quantity: quantity}, nil
}

func (s *stubCartService) RemoveLine(_ context.Context, _, lineID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.removed = lineID
	return nil
}

func (s *stubCartService) Clear(context.Context, uuid.UUID) error {
	s.cleared = true
	return nil
}

func (s *stubCartService) Snapshot(_ context.Context, cartID uuid.UUID) (*cartsvc.Snapshot, error) {
	s.snapshots++
	return &cartsvc.Snapshot{CartID: cartID, TotalItems: 2, TotalPrice: decimal.RequireFromString("180")}, nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithActor(req.Context(), userID, enums.UserRoleCustomer))
}

func withLineParam(req *http.Request, lineID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("lineId", lineID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeSnapshot(t *testing.T, resp *httptest.ResponseRecorder) cartsvc.Snapshot {
	t.Helper()
	var envelope struct {
		Data cartsvc.Snapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestFetchUsesCallerCart(t *testing.T) {
	svc := newStub()
	userID := uuid.New()
	resp := httptest.NewRecorder()
	Fetch(svc, nil).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", "", userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.userIDs) != 1 || svc.userIDs[0] != userID {
		t.Fatalf("cart resolved for wrong user: %v", svc.userIDs)
	}
	snapshot := decodeSnapshot(t, resp)
	if snapshot.CartID != svc.cartID || !snapshot.TotalPrice.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestFetchRequiresActor(t *testing.T) {
	resp := httptest.NewRecorder()
	Fetch(newStub(), nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAddLine(t *testing.T) {
	svc := newStub()
	body := fmt.Sprintf(`{"product_id":"%s","quantity":3}`, uuid.New())
	resp := httptest.NewRecorder()
	AddLine(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.added) != 1 || svc.added[0] != 3 || svc.snapshots != 1 {
		t.Fatalf("unexpected calls added=%v snapshots=%d", svc.added, svc.snapshots)
	}
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	svc := newStub()
	body := fmt.Sprintf(`{"product_id":"%s","quantity":0}`, uuid.New())
	resp := httptest.NewRecorder()
	AddLine(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.added) != 0 || len(svc.userIDs) != 0 {
		t.Fatalf("service should not be reached")
	}
}

func TestAddLineUnknownProduct(t *testing.T) {
	svc := newStub()
	svc.err = pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
	body := fmt.Sprintf(`{"product_id":"%s","quantity":1}`, uuid.New())
	resp := httptest.NewRecorder()
	AddLine(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New()))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestSetLineQuantityAcceptsZero(t *testing.T) {
	svc := newStub()
	lineID := uuid.New()
	req := withLineParam(authedRequest(http.MethodPatch, "/api/v1/cart/items/"+lineID.String(), `{"quantity":0}`, uuid.New()), lineID.String())
	resp := httptest.NewRecorder()
	SetLineQuantity(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.setQty == nil || *svc.setQty != 0 {
		t.Fatalf("expected quantity 0 forwarded, got %v", svc.setQty)
	}
}

func TestSetLineQuantityRequiresQuantity(t *testing.T) {
	lineID := uuid.New()
	req := withLineParam(authedRequest(http.MethodPatch, "/", `{}`, uuid.New()), lineID.String())
	resp := httptest.NewRecorder()
	SetLineQuantity(newStub(), nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRemoveLineMissing(t *testing.T) {
	svc := newStub()
	svc.err = pkgerrors.New(pkgerrors.CodeLineNotFound, "cart line not found")
	lineID := uuid.New()
	req := withLineParam(authedRequest(http.MethodDelete, "/", "", uuid.New()), lineID.String())
	resp := httptest.NewRecorder()
	RemoveLine(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestRemoveLineMalformedID(t *testing.T) {
	req := withLineParam(authedRequest(http.MethodDelete, "/", "", uuid.New()), "12")
	resp := httptest.NewRecorder()
	RemoveLine(newStub(), nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestClear(t *testing.T) {
	svc := newStub()
	resp := httptest.NewRecorder()
	Clear(svc, nil).ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", "", uuid.New()))
	if resp.Code != http.StatusOK || !svc.cleared {
		t.Fatalf("expected cleared cart, code=%d", resp.Code)
	}
}
