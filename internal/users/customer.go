package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghassen-kharrat/barbachli-sub000/pkg/db/models"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/logger"
)

// UnknownCustomerName labels orders whose owner could not be resolved.
const UnknownCustomerName = "Unknown Customer"

// Customer is the read-side view of an order's owner.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Resolved  bool      `json:"resolved"`
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Placeholder returns the stand-in used when a lookup fails.
func Placeholder(id uuid.UUID) Customer {
	return Customer{ID: id, FirstName: UnknownCustomerName}
}

// FromModel converts a user row.
func FromModel(u models.User) Customer {
	return Customer{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Resolved:  true,
	}
}

type userLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
}

// Resolver turns user ids into customers and never fails: lookup errors and
// missing rows degrade to Placeholder.
type Resolver struct {
	users userLookup
	logg  *logger.Logger
}

// NewResolver builds a Resolver.
func NewResolver(users userLookup, logg *logger.Logger) *Resolver {
	return &Resolver{users: users, logg: logg}
}

// ResolveMany returns a customer for every id in ids.
func (r *Resolver) ResolveMany(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]Customer {
	unique := dedupe(ids)
	out := make(map[uuid.UUID]Customer, len(unique))

	found, err := r.users.FindByIDs(ctx, unique)
	if err != nil {
		if r.logg != nil {
			r.logg.Error(r.logg.WithField(ctx, "user_count", len(unique)), "orders.customer.lookup_failed", err)
		}
		found = nil
	}
	for _, id := range unique {
		if u, ok := found[id]; ok {
			out[id] = FromModel(u)
			continue
		}
		if r.logg != nil && err == nil {
			r.logg.Warn(r.logg.WithField(ctx, "user_id", id.String()), "orders.customer.unresolved")
		}
		out[id] = Placeholder(id)
	}
	return out
}

// Resolve returns the customer for one id.
func (r *Resolver) Resolve(ctx context.Context, id uuid.UUID) Customer {
	return r.ResolveMany(ctx, []uuid.UUID{id})[id]
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
