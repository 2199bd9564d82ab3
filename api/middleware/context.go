package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghassen-kharrat/barbachli-sub000/internal/orders"
	"github.com/ghassen-kharrat/barbachli-sub000/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated caller into the context.
func WithActor(ctx context.Context, userID uuid.UUID, role enums.UserRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID.String())
	return context.WithValue(ctx, ctxRole, string(role))
}

// ActorFromContext rebuilds the order actor seeded by Auth. ok is false when
// the request carries no valid identity.
func ActorFromContext(ctx context.Context) (orders.Actor, bool) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil || userID == uuid.Nil {
		return orders.Actor{}, false
	}
	role, err := enums.ParseUserRole(RoleFromContext(ctx))
	if err != nil {
		return orders.Actor{}, false
	}
	return orders.Actor{UserID: userID, Role: role}, true
}
