// Package cart holds the per-user mutable pre-order state.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	pkgerrors "github.com/ghassen-kharrat/barbachli-sub000/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// Service exposes cart operations. Methods taking a cartID trust only that
// id; callers derive it from the authenticated user via GetOrCreateCart.
type Service interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	SetLineQuantity(ctx context.Context, cartID, lineID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
	Snapshot(ctx context.Context, cartID uuid.UUID) (*Snapshot, error)
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	cart = &models.Cart{ID: uuid.New(), UserID: userID}
	if err := s.repo.Create(ctx, cart); err != nil {
		// a concurrent first access for the same user won the insert
		if db.IsUniqueViolation(err, "ux_carts_user_id", "carts.user_id") {
			existing, findErr := s.repo.FindByUser(ctx, userID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "load cart")
			}
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return cart, nil
}

func (s *service) AddLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer").
			WithDetails(map[string]any{"quantity": quantity})
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeProductNotFound) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	line := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := s.repo.UpsertLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart line")
	}
	stored, err := s.repo.FindLineByProduct(ctx, cartID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart line")
	}
	return stored, nil
}

func (s *service) SetLineQuantity(ctx context.Context, cartID, lineID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative").
			WithDetails(map[string]any{"quantity": quantity})
	}
	if quantity == 0 {
		return nil, s.RemoveLine(ctx, cartID, lineID)
	}
	affected, err := s.repo.UpdateLineQuantity(ctx, cartID, lineID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	if affected == 0 {
		return nil, lineNotFound(lineID)
	}
	line, err := s.repo.FindLine(ctx, cartID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lineNotFound(lineID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart line")
	}
	return line, nil
}

func (s *service) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) error {
	affected, err := s.repo.DeleteLine(ctx, cartID, lineID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	if affected == 0 {
		return lineNotFound(lineID)
	}
	return nil
}

func (s *service) Clear(ctx context.Context, cartID uuid.UUID) error {
	if err := s.repo.DeleteLines(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) Snapshot(ctx context.Context, cartID uuid.UUID) (*Snapshot, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	lines, err := s.repo.ListLines(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart lines")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart products")
	}

	snap := &Snapshot{
		CartID:     cart.ID,
		UserID:     cart.UserID,
		Lines:      make([]SnapshotLine, 0, len(lines)),
		TotalPrice: decimal.Zero,
	}
	for _, line := range lines {
		entry := SnapshotLine{
			LineID:    line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			ListPrice: decimal.Zero,
			UnitPrice: decimal.Zero,
			LineTotal: decimal.Zero,
		}
		if product, ok := catalog[line.ProductID]; ok {
			entry.Name = product.Name
			entry.Images = product.Images
			entry.ListPrice = product.Price
			entry.UnitPrice = product.EffectivePrice()
			entry.Discounted = product.IsDiscounted()
			entry.LineTotal = entry.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			entry.Stock = product.Stock
			entry.Available = true
			snap.TotalItems += line.Quantity
			snap.TotalPrice = snap.TotalPrice.Add(entry.LineTotal)
		}
		snap.Lines = append(snap.Lines, entry)
	}
	return snap, nil
}

func lineNotFound(lineID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeLineNotFound, "cart line not found").
		WithDetails(map[string]any{"line_id": lineID.String()})
}
