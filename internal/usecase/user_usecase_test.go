package usecase

import (
	"context"
	"errors"
	"testing"

	"teamskills/internal/operation"
	"teamskills/internal/permissions"

	"github.com/google/uuid"
)

type recordingInvalidator struct {
	invalidated []uuid.UUID
}

func (r *recordingInvalidator) InvalidateUserPermissions(_ context.Context, userID uuid.UUID) {
	r.invalidated = append(r.invalidated, userID)
}

func newUserFixture(t *testing.T) (*User, *mockUserRepo, *recordingInvalidator) {
	t.Helper()
	users := newMockUserRepo()
	inv := &recordingInvalidator{}
	return NewUserUsecase(users, snapshots(users), inv), users, inv
}

func TestListUsers_AdminOnly(t *testing.T) {
	uc, users, _ := newUserFixture(t)
	root := users.addUser("root@example.com", permissions.PermAdmin)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin, permissions.PermTeamsListAdmin)

	if _, err := uc.ListUsers(context.Background(), root.ID); err != nil {
		t.Fatalf("ADMIN should list users: %v", err)
	}
	_, err := uc.ListUsers(context.Background(), curator.ID)
	if !errors.Is(err, operation.ErrUnauthorized) {
		t.Fatalf("list admins must not list users, got %v", err)
	}
}

func TestGetUserPermissions_OwnerOrAdmin(t *testing.T) {
	uc, users, _ := newUserFixture(t)
	root := users.addUser("root@example.com", permissions.PermAdmin)
	subject := users.addUser("subject@example.com", permissions.PermReader, permissions.PermGuest)
	other := users.addUser("other@example.com", permissions.PermReader)

	own, err := uc.GetUserPermissions(context.Background(), subject.ID, subject.ID)
	if err != nil {
		t.Fatalf("owner should read own permissions: %v", err)
	}
	for _, p := range own {
		if p == permissions.PermGuest {
			t.Fatalf("GUEST must not appear in the listing")
		}
	}

	if _, err := uc.GetUserPermissions(context.Background(), root.ID, subject.ID); err != nil {
		t.Fatalf("ADMIN should read anyone's permissions: %v", err)
	}

	_, err = uc.GetUserPermissions(context.Background(), other.ID, subject.ID)
	if !errors.Is(err, operation.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAddUserPermissions_InvalidatesSnapshot(t *testing.T) {
	uc, users, inv := newUserFixture(t)
	root := users.addUser("root@example.com", permissions.PermAdmin)
	subject := users.addUser("subject@example.com", permissions.PermReader)

	err := uc.AddUserPermissions(context.Background(), root.ID, subject.ID, []permissions.Permission{permissions.PermSkillsListAdmin})
	if err != nil {
		t.Fatalf("add permissions: %v", err)
	}
	if !users.grants[subject.ID].Has(permissions.PermSkillsListAdmin) {
		t.Fatalf("grant was not persisted")
	}
	if len(inv.invalidated) != 1 || inv.invalidated[0] != subject.ID {
		t.Fatalf("cached snapshot was not invalidated: %v", inv.invalidated)
	}
}

func TestRemoveUserPermissions_GuestIrrevocable(t *testing.T) {
	uc, users, _ := newUserFixture(t)
	root := users.addUser("root@example.com", permissions.PermAdmin)
	subject := users.addUser("subject@example.com", permissions.PermReader, permissions.PermGuest)

	err := uc.RemoveUserPermissions(context.Background(), root.ID, subject.ID, []permissions.Permission{permissions.PermGuest})
	if !errors.Is(err, operation.ErrDomainRule) {
		t.Fatalf("expected ErrDomainRule, got %v", err)
	}
	if !users.grants[subject.ID].Has(permissions.PermGuest) {
		t.Fatalf("GUEST was revoked")
	}
}

func TestAddUserPermissions_NonAdminRejected(t *testing.T) {
	uc, users, inv := newUserFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)
	subject := users.addUser("subject@example.com", permissions.PermReader)

	err := uc.AddUserPermissions(context.Background(), curator.ID, subject.ID, []permissions.Permission{permissions.PermAdmin})
	if !errors.Is(err, operation.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(inv.invalidated) != 0 {
		t.Fatalf("rejected grant must not touch the cache")
	}
}
