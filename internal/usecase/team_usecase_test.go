package usecase

import (
	"context"
	"errors"
	"testing"

	"teamskills/internal/operation"
	"teamskills/internal/permissions"

	"github.com/google/uuid"
)

func newTeamFixture(t *testing.T) (*Team, *mockTeamRepo, *mockUserRepo) {
	t.Helper()
	users := newMockUserRepo()
	teams := newMockTeamRepo()
	return NewTeamUsecase(teams, users, snapshots(users)), teams, users
}

func TestCreateTeam_RequiresTeamsListAdmin(t *testing.T) {
	uc, _, users := newTeamFixture(t)
	reader := users.addUser("reader@example.com", permissions.PermReader)

	_, err := uc.CreateTeam(context.Background(), reader.ID, "platform")
	if !errors.Is(err, operation.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateTeam_DuplicateName(t *testing.T) {
	uc, _, users := newTeamFixture(t)
	admin := users.addUser("admin@example.com", permissions.PermTeamsListAdmin)

	if _, err := uc.CreateTeam(context.Background(), admin.ID, "platform"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := uc.CreateTeam(context.Background(), admin.ID, "platform")
	if !errors.Is(err, operation.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// A concurrent insert can slip between the name pre-check and the insert;
// the storage conflict must still surface as a duplicate, not an internal
// error.
func TestCreateTeam_InsertConflictSurfacesAsDuplicate(t *testing.T) {
	uc, teams, users := newTeamFixture(t)
	admin := users.addUser("admin@example.com", permissions.PermTeamsListAdmin)
	teams.createConflict = true

	_, err := uc.CreateTeam(context.Background(), admin.ID, "platform")
	if !errors.Is(err, operation.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAddUserToTeam_MembershipDoesNotGrantManagement(t *testing.T) {
	uc, teams, users := newTeamFixture(t)
	member := users.addUser("member@example.com", permissions.PermReader)
	newcomer := users.addUser("new@example.com", permissions.PermReader)
	team := teams.addTeam("platform")
	teams.addMember(team.ID, member.ID)

	err := uc.AddUserToTeam(context.Background(), member.ID, team.ID, newcomer.ID)
	if !errors.Is(err, operation.ErrUnauthorized) {
		t.Fatalf("membership alone must not admit, got %v", err)
	}
}

func TestAddUserToTeam_AdminBypass(t *testing.T) {
	uc, teams, users := newTeamFixture(t)
	root := users.addUser("root@example.com", permissions.PermAdmin)
	newcomer := users.addUser("new@example.com", permissions.PermReader)
	team := teams.addTeam("platform")

	if err := uc.AddUserToTeam(context.Background(), root.ID, team.ID, newcomer.ID); err != nil {
		t.Fatalf("ADMIN must be admitted everywhere: %v", err)
	}
	ok, _ := teams.IsTeamMember(context.Background(), team.ID, newcomer.ID)
	if !ok {
		t.Fatalf("member was not added")
	}
}

func TestAddUserToTeam_DuplicateMember(t *testing.T) {
	uc, teams, users := newTeamFixture(t)
	admin := users.addUser("admin@example.com", permissions.PermTeamsListAdmin)
	member := users.addUser("member@example.com", permissions.PermReader)
	team := teams.addTeam("platform")
	teams.addMember(team.ID, member.ID)

	err := uc.AddUserToTeam(context.Background(), admin.ID, team.ID, member.ID)
	if !errors.Is(err, operation.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAddUserToTeam_UnknownUser(t *testing.T) {
	uc, teams, users := newTeamFixture(t)
	admin := users.addUser("admin@example.com", permissions.PermTeamsListAdmin)
	team := teams.addTeam("platform")

	err := uc.AddUserToTeam(context.Background(), admin.ID, team.ID, uuid.New())
	if !errors.Is(err, operation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveUserFromTeam_NotAMember(t *testing.T) {
	uc, teams, users := newTeamFixture(t)
	admin := users.addUser("admin@example.com", permissions.PermTeamsListAdmin)
	stranger := users.addUser("stranger@example.com", permissions.PermReader)
	team := teams.addTeam("platform")

	err := uc.RemoveUserFromTeam(context.Background(), admin.ID, team.ID, stranger.ID)
	if !errors.Is(err, operation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTeams_OpenToAnyone(t *testing.T) {
	uc, teams, _ := newTeamFixture(t)
	teams.addTeam("platform")
	teams.addTeam("data")

	items, err := uc.ListTeams(context.Background())
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(items))
	}
}
