package usecase

import (
	"context"
	"strings"

	"teamskills/internal/operation"
	"teamskills/internal/permissions"
	"teamskills/internal/repository"

	"github.com/google/uuid"
)

type SkillItem struct {
	ID   uuid.UUID
	Name string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
	AddSkill(ctx context.Context, actorID uuid.UUID, name string) (SkillItem, error)
	DeleteSkill(ctx context.Context, actorID, skillID uuid.UUID) error

	AddPrerequisite(ctx context.Context, actorID, skillID, prerequisiteID uuid.UUID) error
	RemovePrerequisite(ctx context.Context, actorID, skillID, prerequisiteID uuid.UUID) error
	GetPrerequisites(ctx context.Context, skillID uuid.UUID) ([]SkillItem, error)
	GetContributions(ctx context.Context, skillID uuid.UUID) ([]SkillItem, error)
}

type Skill struct {
	repo  repository.SkillRepository
	perms operation.PermissionSource
}

func NewSkillUsecase(repo repository.SkillRepository, perms operation.PermissionSource) *Skill {
	return &Skill{repo: repo, perms: perms}
}

func skillListPolicy() operation.Policy {
	return operation.RequireAny(permissions.PermSkillsListAdmin)
}

func (u *Skill) ListSkills(ctx context.Context) ([]SkillItem, error) {
	op := operation.NewUnauthenticated(func(ctx context.Context) ([]SkillItem, error) {
		items, err := u.repo.ListSkills(ctx)
		if err != nil {
			return nil, operation.ErrInternal
		}
		return toSkillItems(items), nil
	})
	return op.Execute(ctx)
}

func (u *Skill) AddSkill(ctx context.Context, actorID uuid.UUID, name string) (SkillItem, error) {
	op := operation.New(actorID, u.perms, skillListPolicy(),
		func(ctx context.Context) (SkillItem, error) {
			name := strings.TrimSpace(name)
			if name == "" {
				return SkillItem{}, operation.ErrInvalidInput
			}
			created, err := u.repo.CreateSkill(ctx, name)
			if err != nil {
				return SkillItem{}, mapRepoError(err)
			}
			return SkillItem{ID: created.ID, Name: created.Name}, nil
		})
	return op.Execute(ctx)
}

func (u *Skill) DeleteSkill(ctx context.Context, actorID, skillID uuid.UUID) error {
	op := operation.New(actorID, u.perms, skillListPolicy(),
		func(ctx context.Context) (struct{}, error) {
			if err := u.repo.DeleteSkill(ctx, skillID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *Skill) AddPrerequisite(ctx context.Context, actorID, skillID, prerequisiteID uuid.UUID) error {
	op := operation.New(actorID, u.perms, skillListPolicy(),
		func(ctx context.Context) (struct{}, error) {
			// Self-loops are rejected; longer cycles are not detected.
			if skillID == prerequisiteID {
				return struct{}{}, operation.ErrSelfReference
			}
			if _, err := u.repo.GetSkillByID(ctx, skillID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if _, err := u.repo.GetSkillByID(ctx, prerequisiteID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if err := u.repo.AddPrerequisite(ctx, skillID, prerequisiteID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *Skill) RemovePrerequisite(ctx context.Context, actorID, skillID, prerequisiteID uuid.UUID) error {
	op := operation.New(actorID, u.perms, skillListPolicy(),
		func(ctx context.Context) (struct{}, error) {
			if err := u.repo.RemovePrerequisite(ctx, skillID, prerequisiteID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *Skill) GetPrerequisites(ctx context.Context, skillID uuid.UUID) ([]SkillItem, error) {
	op := operation.NewUnauthenticated(func(ctx context.Context) ([]SkillItem, error) {
		if _, err := u.repo.GetSkillByID(ctx, skillID); err != nil {
			return nil, mapRepoError(err)
		}
		items, err := u.repo.GetPrerequisites(ctx, skillID)
		if err != nil {
			return nil, operation.ErrInternal
		}
		return toSkillItems(items), nil
	})
	return op.Execute(ctx)
}

func (u *Skill) GetContributions(ctx context.Context, skillID uuid.UUID) ([]SkillItem, error) {
	op := operation.NewUnauthenticated(func(ctx context.Context) ([]SkillItem, error) {
		if _, err := u.repo.GetSkillByID(ctx, skillID); err != nil {
			return nil, mapRepoError(err)
		}
		items, err := u.repo.GetContributions(ctx, skillID)
		if err != nil {
			return nil, operation.ErrInternal
		}
		return toSkillItems(items), nil
	})
	return op.Execute(ctx)
}

func toSkillItems(items []repository.Skill) []SkillItem {
	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name})
	}
	return out
}
