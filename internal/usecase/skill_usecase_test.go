package usecase

import (
	"context"
	"errors"
	"testing"

	"teamskills/internal/operation"
	"teamskills/internal/permissions"

	"github.com/google/uuid"
)

func newSkillFixture(t *testing.T) (*Skill, *mockSkillRepo, *mockUserRepo) {
	t.Helper()
	users := newMockUserRepo()
	repo := newMockSkillRepo()
	return NewSkillUsecase(repo, snapshots(users)), repo, users
}

func TestAddSkill_RequiresSkillsListAdmin(t *testing.T) {
	uc, _, users := newSkillFixture(t)
	reader := users.addUser("reader@example.com", permissions.PermReader)

	_, err := uc.AddSkill(context.Background(), reader.ID, "Go")
	if !errors.Is(err, operation.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAddSkill_Success(t *testing.T) {
	uc, _, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)

	item, err := uc.AddSkill(context.Background(), curator.ID, "  Go  ")
	if err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if item.Name != "Go" {
		t.Fatalf("expected trimmed name, got %q", item.Name)
	}
}

func TestAddSkill_EmptyName(t *testing.T) {
	uc, _, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)

	_, err := uc.AddSkill(context.Background(), curator.ID, "   ")
	if !errors.Is(err, operation.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddSkill_DuplicateName(t *testing.T) {
	uc, _, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)

	if _, err := uc.AddSkill(context.Background(), curator.ID, "Go"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := uc.AddSkill(context.Background(), curator.ID, "Go")
	if !errors.Is(err, operation.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAddPrerequisite_SelfLoopRejected(t *testing.T) {
	uc, repo, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)
	skill := repo.addSkill("Go")

	err := uc.AddPrerequisite(context.Background(), curator.ID, skill.ID, skill.ID)
	if !errors.Is(err, operation.ErrSelfReference) {
		t.Fatalf("expected ErrSelfReference, got %v", err)
	}
}

func TestAddPrerequisite_DuplicateEdgeRejected(t *testing.T) {
	uc, repo, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)
	gol := repo.addSkill("Go")
	sql := repo.addSkill("SQL")

	if err := uc.AddPrerequisite(context.Background(), curator.ID, gol.ID, sql.ID); err != nil {
		t.Fatalf("first edge: %v", err)
	}
	err := uc.AddPrerequisite(context.Background(), curator.ID, gol.ID, sql.ID)
	if !errors.Is(err, operation.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAddPrerequisite_LongerCycleAccepted(t *testing.T) {
	uc, repo, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)
	a := repo.addSkill("A")
	b := repo.addSkill("B")

	if err := uc.AddPrerequisite(context.Background(), curator.ID, a.ID, b.ID); err != nil {
		t.Fatalf("a->b: %v", err)
	}
	if err := uc.AddPrerequisite(context.Background(), curator.ID, b.ID, a.ID); err != nil {
		t.Fatalf("two-step cycles are not rejected: %v", err)
	}
}

func TestAddPrerequisite_UnknownSkill(t *testing.T) {
	uc, repo, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)
	skill := repo.addSkill("Go")

	err := uc.AddPrerequisite(context.Background(), curator.ID, skill.ID, uuid.New())
	if !errors.Is(err, operation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPrerequisitesAndContributions(t *testing.T) {
	uc, repo, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)
	gol := repo.addSkill("Go")
	sql := repo.addSkill("SQL")

	if err := uc.AddPrerequisite(context.Background(), curator.ID, gol.ID, sql.ID); err != nil {
		t.Fatalf("edge: %v", err)
	}

	prereqs, err := uc.GetPrerequisites(context.Background(), gol.ID)
	if err != nil {
		t.Fatalf("prerequisites: %v", err)
	}
	if len(prereqs) != 1 || prereqs[0].ID != sql.ID {
		t.Fatalf("expected SQL as prerequisite, got %v", prereqs)
	}

	contribs, err := uc.GetContributions(context.Background(), sql.ID)
	if err != nil {
		t.Fatalf("contributions: %v", err)
	}
	if len(contribs) != 1 || contribs[0].ID != gol.ID {
		t.Fatalf("expected Go as contribution, got %v", contribs)
	}
}

func TestRemovePrerequisite_MissingEdge(t *testing.T) {
	uc, repo, users := newSkillFixture(t)
	curator := users.addUser("curator@example.com", permissions.PermSkillsListAdmin)
	gol := repo.addSkill("Go")
	sql := repo.addSkill("SQL")

	err := uc.RemovePrerequisite(context.Background(), curator.ID, gol.ID, sql.ID)
	if !errors.Is(err, operation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
