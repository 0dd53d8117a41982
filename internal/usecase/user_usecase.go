package usecase

import (
	"context"

	"teamskills/internal/operation"
	"teamskills/internal/permissions"
	"teamskills/internal/repository"

	"github.com/google/uuid"
)

type UserItem struct {
	ID    uuid.UUID
	Email string
}

type UserUsecase interface {
	ListUsers(ctx context.Context, actorID uuid.UUID) ([]UserItem, error)
	// GetUserPermissions returns the user's grants with GUEST filtered out
	// of the listing; admission itself always evaluates the unfiltered set.
	GetUserPermissions(ctx context.Context, actorID, userID uuid.UUID) ([]permissions.Permission, error)
	AddUserPermissions(ctx context.Context, actorID, userID uuid.UUID, perms []permissions.Permission) error
	RemoveUserPermissions(ctx context.Context, actorID, userID uuid.UUID, perms []permissions.Permission) error
}

type User struct {
	users repository.UserRepository
	perms operation.PermissionSource
	cache PermissionInvalidator
}

// PermissionInvalidator drops a user's cached permission snapshot after a
// grant change.
type PermissionInvalidator interface {
	InvalidateUserPermissions(ctx context.Context, userID uuid.UUID)
}

func NewUserUsecase(users repository.UserRepository, perms operation.PermissionSource, cache PermissionInvalidator) *User {
	return &User{users: users, perms: perms, cache: cache}
}

func (u *User) ListUsers(ctx context.Context, actorID uuid.UUID) ([]UserItem, error) {
	op := operation.New(actorID, u.perms, operation.RequireAny(),
		func(ctx context.Context) ([]UserItem, error) {
			users, err := u.users.ListUsers(ctx)
			if err != nil {
				return nil, operation.ErrInternal
			}
			out := make([]UserItem, 0, len(users))
			for _, usr := range users {
				out = append(out, UserItem{ID: usr.ID, Email: usr.Email})
			}
			return out, nil
		})
	return op.Execute(ctx)
}

func (u *User) GetUserPermissions(ctx context.Context, actorID, userID uuid.UUID) ([]permissions.Permission, error) {
	policy := operation.AnyOf(operation.RequireAny(), operation.Owner(userID))
	op := operation.New(actorID, u.perms, policy,
		func(ctx context.Context) ([]permissions.Permission, error) {
			if _, err := u.users.GetUserByID(ctx, userID); err != nil {
				return nil, mapRepoError(err)
			}
			set, err := u.users.GetGlobalPermissions(ctx, userID)
			if err != nil {
				return nil, operation.ErrInternal
			}
			return permissions.WithoutGuest(set.Slice()), nil
		})
	return op.Execute(ctx)
}

func (u *User) AddUserPermissions(ctx context.Context, actorID, userID uuid.UUID, perms []permissions.Permission) error {
	op := operation.New(actorID, u.perms, operation.RequireAny(),
		func(ctx context.Context) (struct{}, error) {
			if len(perms) == 0 {
				return struct{}{}, operation.ErrInvalidInput
			}
			if _, err := u.users.GetUserByID(ctx, userID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if err := u.users.AddGlobalPermissions(ctx, userID, perms); err != nil {
				return struct{}{}, operation.ErrInternal
			}
			u.invalidate(ctx, userID)
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *User) RemoveUserPermissions(ctx context.Context, actorID, userID uuid.UUID, perms []permissions.Permission) error {
	op := operation.New(actorID, u.perms, operation.RequireAny(),
		func(ctx context.Context) (struct{}, error) {
			if len(perms) == 0 {
				return struct{}{}, operation.ErrInvalidInput
			}
			for _, p := range perms {
				// GUEST is the implicit authenticated grant; it cannot be
				// revoked.
				if p == permissions.PermGuest {
					return struct{}{}, operation.ErrDomainRule
				}
			}
			if _, err := u.users.GetUserByID(ctx, userID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if err := u.users.RemoveGlobalPermissions(ctx, userID, perms); err != nil {
				return struct{}{}, operation.ErrInternal
			}
			u.invalidate(ctx, userID)
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *User) invalidate(ctx context.Context, userID uuid.UUID) {
	if u.cache != nil {
		u.cache.InvalidateUserPermissions(ctx, userID)
	}
}
