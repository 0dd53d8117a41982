package operation

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"teamskills/internal/permissions"
)

// PermissionSource resolves the acting user's global permission snapshot.
type PermissionSource interface {
	GetUserGlobalPermissions(ctx context.Context, userID uuid.UUID) (permissions.Set, error)
}

// Operation is a single authorization-gated unit of work, constructed per
// request and executed exactly once. Execute fetches the actor's permission
// snapshot, evaluates the admission policy, and only then runs the work
// body. On rejection the work body never runs and no side effect occurs.
type Operation[T any] struct {
	actorID  uuid.UUID
	perms    PermissionSource
	policy   Policy
	work     func(ctx context.Context) (T, error)
	executed atomic.Bool
}

func New[T any](actorID uuid.UUID, perms PermissionSource, policy Policy, work func(ctx context.Context) (T, error)) *Operation[T] {
	return &Operation[T]{actorID: actorID, perms: perms, policy: policy, work: work}
}

func (o *Operation[T]) Execute(ctx context.Context) (T, error) {
	var zero T
	if o.executed.Swap(true) {
		return zero, ErrOperationConsumed
	}

	snapshot, err := o.perms.GetUserGlobalPermissions(ctx, o.actorID)
	if err != nil {
		return zero, ErrInternal
	}

	actor := Actor{ID: o.actorID, Permissions: snapshot}
	if err := o.policy.Admit(ctx, actor); err != nil {
		if err == ErrUnauthorized {
			return zero, ErrUnauthorized
		}
		return zero, err
	}

	return o.work(ctx)
}

// Unauthenticated is the lifecycle for operations with no acting principal.
// Those are pure reads, so there is no permission phase; the work body runs
// unconditionally, still at most once.
type Unauthenticated[T any] struct {
	work     func(ctx context.Context) (T, error)
	executed atomic.Bool
}

func NewUnauthenticated[T any](work func(ctx context.Context) (T, error)) *Unauthenticated[T] {
	return &Unauthenticated[T]{work: work}
}

func (o *Unauthenticated[T]) Execute(ctx context.Context) (T, error) {
	var zero T
	if o.executed.Swap(true) {
		return zero, ErrOperationConsumed
	}
	return o.work(ctx)
}
