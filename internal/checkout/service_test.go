package checkout

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub000/internal/cart"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/orders"
	"github.com/ghassen-kharrat/barbachli-sub000/internal/products"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/dbtest"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/metrics"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/outbox"
)

type harness struct {
	client   *db.Client
	svc      Service
	carts    cart.Service
	products *products.Repository
	logs     *bytes.Buffer
}

type harnessOption func(*ServiceParams)

func newHarness(t *testing.T, opts ...harnessOption) harness {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()
	logs := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: logs})

	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	cartSvc, err := cart.NewService(cartRepo, productRepo)
	require.NoError(t, err)

	params := ServiceParams{
		Tx:        client,
		Carts:     cartRepo,
		Orders:    orders.NewRepository(conn),
		Inventory: products.NewInventory(productRepo),
		Outbox:    outbox.NewService(outbox.NewRepository(conn), logg),
		Metrics:   metrics.NewCheckoutMetrics(prometheus.NewRegistry()),
		Logger:    logg,
		Timeout:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(&params)
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return harness{client: client, svc: svc, carts: cartSvc, products: productRepo, logs: logs}
}

func (h harness) product(t *testing.T, price int64, discount *int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Tajine " + uuid.NewString()[:4], Price: decimal.NewFromInt(price), Stock: stock}
	if discount != nil {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(*discount))
	}
	require.NoError(t, h.products.Create(context.Background(), p))
	return p
}

func (h harness) fillCart(t *testing.T, userID uuid.UUID, lines map[uuid.UUID]int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	c, err := h.carts.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	for productID, qty := range lines {
		_, err := h.carts.AddLine(ctx, c.ID, productID, qty)
		require.NoError(t, err)
	}
	return c.ID
}

func (h harness) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := h.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (h harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.client.DB().Model(model).Count(&n).Error)
	return n
}

func validInput() Input {
	return Input{Address: "12 Rue de Marseille", City: "Tunis", Zip: "1000", Phone: "+21620123456"}
}

func int64Ptr(v int64) *int64 { return &v }

func TestCheckoutFreezesDiscountedTotal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	a := h.product(t, 100, int64Ptr(90), 5)
	cartID := h.fillCart(t, userID, map[uuid.UUID]int{a.ID: 2})

	detail, err := h.svc.Checkout(ctx, userID, validInput())
	require.NoError(t, err)

	require.True(t, detail.TotalPrice.Equal(decimal.NewFromInt(180)), detail.TotalPrice.String())
	require.Equal(t, enums.OrderStatusPending, detail.Status)
	require.Equal(t, enums.PaymentStatusUnpaid, detail.PaymentStatus)
	require.True(t, strings.HasPrefix(detail.Reference, "ORD-"))
	require.Len(t, detail.Reference, 12)
	require.Len(t, detail.Items, 1)
	require.True(t, detail.Items[0].UnitPrice.Equal(decimal.NewFromInt(90)))
	require.Equal(t, 3, h.stock(t, a.ID))

	snap, err := h.carts.Snapshot(ctx, cartID)
	require.NoError(t, err)
	require.Empty(t, snap.Lines)

	var events []models.OutboxEvent
	require.NoError(t, h.client.DB().Where("aggregate_id = ?", detail.ID).Find(&events).Error)
	require.Len(t, events, 1)
	require.Equal(t, enums.EventOrderCreated, events[0].EventType)
	require.Contains(t, h.logs.String(), "checkout.completed")
}

func TestCheckoutPriceChangeDoesNotAlterPlacedOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	a := h.product(t, 100, int64Ptr(90), 5)
	h.fillCart(t, userID, map[uuid.UUID]int{a.ID: 2})

	detail, err := h.svc.Checkout(ctx, userID, validInput())
	require.NoError(t, err)

	require.NoError(t, h.client.DB().Model(&models.Product{}).Where("id = ?", a.ID).
		Updates(map[string]any{"price": decimal.NewFromInt(300), "discount_price": nil}).Error)

	var order models.Order
	require.NoError(t, h.client.DB().First(&order, "id = ?", detail.ID).Error)
	require.True(t, order.TotalPrice.Equal(decimal.NewFromInt(180)))
	var item models.OrderItem
	require.NoError(t, h.client.DB().First(&item, "order_id = ?", detail.ID).Error)
	require.True(t, item.UnitPrice.Equal(decimal.NewFromInt(90)))
}

func TestCheckoutIsAtomicWhenOneLineLacksStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	plenty := h.product(t, 10, nil, 10)
	scarce := h.product(t, 20, nil, 1)
	cartID := h.fillCart(t, userID, map[uuid.UUID]int{plenty.ID: 3, scarce.ID: 2})

	_, err := h.svc.Checkout(ctx, userID, validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, scarce.ID.String(), details["product_id"])

	require.Equal(t, 10, h.stock(t, plenty.ID))
	require.Equal(t, 1, h.stock(t, scarce.ID))
	require.Zero(t, h.count(t, &models.Order{}))
	require.Zero(t, h.count(t, &models.OrderItem{}))
	require.Zero(t, h.count(t, &models.OutboxEvent{}))

	snap, err := h.carts.Snapshot(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 2)
}

func TestCheckoutLastUnitSellsOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.product(t, 50, nil, 1)
	first, second := uuid.New(), uuid.New()
	h.fillCart(t, first, map[uuid.UUID]int{b.ID: 1})
	h.fillCart(t, second, map[uuid.UUID]int{b.ID: 1})

	_, err := h.svc.Checkout(ctx, first, validInput())
	require.NoError(t, err)
	_, err = h.svc.Checkout(ctx, second, validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)

	require.Zero(t, h.stock(t, b.ID))
	require.EqualValues(t, 1, h.count(t, &models.Order{}))
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	const buyers, stock = 10, 3
	h := newHarness(t)
	p := h.product(t, 40, nil, stock)
	users := make([]uuid.UUID, buyers)
	for i := range users {
		users[i] = uuid.New()
		h.fillCart(t, users[i], map[uuid.UUID]int{p.ID: 1})
	}

	errs := make([]error, buyers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, userID := range users {
		wg.Add(1)
		go func(i int, userID uuid.UUID) {
			defer wg.Done()
			<-start
			_, errs[i] = h.svc.Checkout(context.Background(), userID, validInput())
		}(i, userID)
	}
	close(start)
	wg.Wait()

	sold, short := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			sold++
		case pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	require.Equal(t, stock, sold)
	require.Equal(t, buyers-stock, short)
	require.Zero(t, h.stock(t, p.ID))
	require.EqualValues(t, stock, h.count(t, &models.Order{}))
}

func TestCheckoutEmptyCart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Checkout(ctx, uuid.New(), validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart))

	userID := uuid.New()
	_, err = h.carts.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	_, err = h.svc.Checkout(ctx, userID, validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart))
}

func TestCheckoutValidatesBeforeTransaction(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()
	a := h.product(t, 10, nil, 5)
	h.fillCart(t, userID, map[uuid.UUID]int{a.ID: 1})

	in := validInput()
	in.City = "   "
	_, err := h.svc.Checkout(context.Background(), userID, in)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.Equal(t, 5, h.stock(t, a.ID))
}

func TestCheckoutRetriesOnceOnReferenceCollision(t *testing.T) {
	refs := []string{"ORD-TAKEN000", "ORD-FRESH000"}
	h := newHarness(t, func(p *ServiceParams) {
		p.References = func() (string, error) {
			ref := refs[0]
			refs = refs[1:]
			return ref, nil
		}
	})
	ctx := context.Background()
	require.NoError(t, h.client.DB().Create(&models.Order{
		ID: uuid.New(), UserID: uuid.New(), Reference: "ORD-TAKEN000", Status: enums.OrderStatusDelivered,
		Phone: "000000", TotalPrice: decimal.NewFromInt(1),
	}).Error)

	userID := uuid.New()
	a := h.product(t, 10, nil, 5)
	h.fillCart(t, userID, map[uuid.UUID]int{a.ID: 1})

	detail, err := h.svc.Checkout(ctx, userID, validInput())
	require.NoError(t, err)
	require.Equal(t, "ORD-FRESH000", detail.Reference)
	require.Equal(t, 4, h.stock(t, a.ID))
}

func TestCheckoutFailsAfterSecondCollision(t *testing.T) {
	h := newHarness(t, func(p *ServiceParams) {
		p.References = func() (string, error) { return "ORD-TAKEN000", nil }
	})
	ctx := context.Background()
	require.NoError(t, h.client.DB().Create(&models.Order{
		ID: uuid.New(), UserID: uuid.New(), Reference: "ORD-TAKEN000", Status: enums.OrderStatusDelivered,
		Phone: "000000", TotalPrice: decimal.NewFromInt(1),
	}).Error)

	userID := uuid.New()
	a := h.product(t, 10, nil, 5)
	h.fillCart(t, userID, map[uuid.UUID]int{a.ID: 1})

	_, err := h.svc.Checkout(ctx, userID, validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCheckoutFailed), "got %v", err)
	require.Equal(t, 5, h.stock(t, a.ID))
}

type slowInventory struct {
	Inventory
}

func (s slowInventory) Load(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]products.Snapshot, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCheckoutTimeoutRollsBack(t *testing.T) {
	h := newHarness(t, func(p *ServiceParams) {
		p.Inventory = slowInventory{Inventory: p.Inventory}
		p.Timeout = 50 * time.Millisecond
	})
	userID := uuid.New()
	a := h.product(t, 10, nil, 5)
	cartID := h.fillCart(t, userID, map[uuid.UUID]int{a.ID: 1})

	_, err := h.svc.Checkout(context.Background(), userID, validInput())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCheckoutFailed), "got %v", err)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.Equal(t, 5, h.stock(t, a.ID))
	snap, err := h.carts.Snapshot(context.Background(), cartID)
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
}

func TestNewReferenceFormat(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		ref, err := NewReference()
		require.NoError(t, err)
		require.Regexp(t, `^ORD-[A-Z0-9]{8}$`, ref)
		seen[ref] = struct{}{}
	}
	require.Greater(t, len(seen), 45)
}
