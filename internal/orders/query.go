package orders

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ghassen-kharrat/barbachli-sub000/internal/users"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/pagination"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/types"
)

func (s *service) ListOwnOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	params = s.bounds.Normalize(params)
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	list := &OrderList{
		Orders:     make([]OrderSummary, 0, len(rows)),
		Pagination: pagination.NewMeta(params, total),
	}
	for _, row := range rows {
		list.Orders = append(list.Orders, NewOrderSummary(row))
	}
	return list, nil
}

// ListAdminOrders returns every order matching filters. Each row carries a
// customer; owners that cannot be resolved get a placeholder instead of
// failing the page.
func (s *service) ListAdminOrders(ctx context.Context, filters AdminOrderFilters, params pagination.Params) (*OrderList, error) {
	params = s.bounds.Normalize(params)
	filters.Sort = filters.Sort.normalized()
	rows, total, err := s.repo.ListAdmin(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admin orders")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	customers := s.customers.ResolveMany(ctx, ids)

	list := &OrderList{
		Orders:     make([]OrderSummary, 0, len(rows)),
		Pagination: pagination.NewMeta(params, total),
	}
	for _, row := range rows {
		summary := NewOrderSummary(row)
		customer, ok := customers[row.UserID]
		if !ok {
			customer = users.Placeholder(row.UserID)
		}
		summary.Customer = &customer
		list.Orders = append(list.Orders, summary)
	}
	return list, nil
}

func (s *service) GetOrderDetail(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDetail, error) {
	order, err := loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(order) {
		return nil, forbidden()
	}
	items, err := s.repo.ListItems(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
	}

	var (
		catalog  map[uuid.UUID]models.Product
		customer *users.Customer
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		ids := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		found, err := s.products.FindByIDs(groupCtx, ids)
		if err != nil {
			return err
		}
		catalog = found
		return nil
	})
	if actor.IsAdmin() {
		group.Go(func() error {
			resolved := s.customers.ResolveMany(groupCtx, []uuid.UUID{order.UserID})[order.UserID]
			customer = &resolved
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "enrich order detail")
	}

	detail := &OrderDetail{
		OrderSummary: NewOrderSummary(*order),
		Items:        make([]OrderLine, 0, len(items)),
	}
	detail.Customer = customer
	for _, item := range items {
		line := OrderLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
			Images:    types.ImageList{},
		}
		if product, ok := catalog[item.ProductID]; ok {
			line.ProductName = product.Name
			line.Images = product.Images
		}
		detail.Items = append(detail.Items, line)
	}
	return detail, nil
}

// NewOrderDetail builds the detail view from a freshly created order without
// re-reading the catalog.
func NewOrderDetail(order models.Order, names map[uuid.UUID]string) OrderDetail {
	detail := OrderDetail{
		OrderSummary: NewOrderSummary(order),
		Items:        make([]OrderLine, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, OrderLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: names[item.ProductID],
			Images:      types.ImageList{},
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	return detail
}
