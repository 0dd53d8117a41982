package operation

import (
	"context"

	"github.com/google/uuid"

	"teamskills/internal/permissions"
)

// Actor is the acting principal with its permission snapshot. The snapshot
// is fetched once per execution and passed explicitly, so policies can be
// evaluated deterministically without a database.
type Actor struct {
	ID          uuid.UUID
	Permissions permissions.Set
}

// Policy decides admission for an actor. Admit returns nil on admission,
// ErrUnauthorized on rejection, or any other error when a fact lookup
// failed.
type Policy interface {
	Admit(ctx context.Context, actor Actor) error
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(ctx context.Context, actor Actor) error

func (f PolicyFunc) Admit(ctx context.Context, actor Actor) error {
	return f(ctx, actor)
}

// RequireAny admits an actor whose permission set intersects required, or
// who holds ADMIN. With no arguments only ADMIN is admitted.
func RequireAny(required ...permissions.Permission) Policy {
	return PolicyFunc(func(_ context.Context, actor Actor) error {
		if permissions.HasAnyOf(actor.Permissions, required) {
			return nil
		}
		return ErrUnauthorized
	})
}

// AnyOf admits when any branch admits. Branches are tried in order;
// a lookup failure in a branch propagates instead of being treated as a
// rejection.
func AnyOf(policies ...Policy) Policy {
	return PolicyFunc(func(ctx context.Context, actor Actor) error {
		for _, p := range policies {
			err := p.Admit(ctx, actor)
			if err == nil {
				return nil
			}
			if err != ErrUnauthorized {
				return err
			}
		}
		return ErrUnauthorized
	})
}

// Owner admits only the owner of the target resource, whatever the actor's
// global permissions short of ADMIN (compose with RequireAny via AnyOf when
// admins should pass too).
func Owner(ownerID uuid.UUID) Policy {
	return PolicyFunc(func(_ context.Context, actor Actor) error {
		if actor.ID == ownerID {
			return nil
		}
		return ErrUnauthorized
	})
}

// MembershipChecker is the team-membership fact lookup consumed by
// TeamMember.
type MembershipChecker interface {
	IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

// TeamMember admits any member of the given team, admin of the team or not.
// Operations that want "any member may do this" compose it with a global
// check via AnyOf.
func TeamMember(members MembershipChecker, teamID uuid.UUID) Policy {
	return PolicyFunc(func(ctx context.Context, actor Actor) error {
		ok, err := members.IsTeamMember(ctx, teamID, actor.ID)
		if err != nil {
			return ErrInternal
		}
		if !ok {
			return ErrUnauthorized
		}
		return nil
	})
}
