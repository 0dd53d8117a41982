package usecase

import (
	"context"
	"strings"

	"teamskills/internal/operation"
	"teamskills/internal/permissions"
	"teamskills/internal/repository"

	"github.com/google/uuid"
)

type TeamItem struct {
	ID   uuid.UUID
	Name string
}

type TeamMemberItem struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

type TeamUsecase interface {
	ListTeams(ctx context.Context) ([]TeamItem, error)
	CreateTeam(ctx context.Context, actorID uuid.UUID, name string) (TeamItem, error)
	DeleteTeam(ctx context.Context, actorID, teamID uuid.UUID) error

	GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]TeamMemberItem, error)
	AddUserToTeam(ctx context.Context, actorID, teamID, userID uuid.UUID) error
	RemoveUserFromTeam(ctx context.Context, actorID, teamID, userID uuid.UUID) error
	SetTeamMemberAdmin(ctx context.Context, actorID, teamID, userID uuid.UUID, isAdmin bool) error
}

type Team struct {
	teams repository.TeamRepository
	users repository.UserRepository
	perms operation.PermissionSource
}

func NewTeamUsecase(teams repository.TeamRepository, users repository.UserRepository, perms operation.PermissionSource) *Team {
	return &Team{teams: teams, users: users, perms: perms}
}

// teamListPolicy gates team and membership mutation. Team membership alone
// never grants the right to add or remove members.
func teamListPolicy() operation.Policy {
	return operation.RequireAny(permissions.PermTeamsListAdmin)
}

func (u *Team) ListTeams(ctx context.Context) ([]TeamItem, error) {
	op := operation.NewUnauthenticated(func(ctx context.Context) ([]TeamItem, error) {
		items, err := u.teams.ListTeams(ctx)
		if err != nil {
			return nil, operation.ErrInternal
		}
		out := make([]TeamItem, 0, len(items))
		for _, it := range items {
			out = append(out, TeamItem{ID: it.ID, Name: it.Name})
		}
		return out, nil
	})
	return op.Execute(ctx)
}

func (u *Team) CreateTeam(ctx context.Context, actorID uuid.UUID, name string) (TeamItem, error) {
	op := operation.New(actorID, u.perms, teamListPolicy(),
		func(ctx context.Context) (TeamItem, error) {
			name := strings.TrimSpace(name)
			if name == "" {
				return TeamItem{}, operation.ErrInvalidInput
			}
			if _, err := u.teams.GetTeamByName(ctx, name); err == nil {
				return TeamItem{}, operation.ErrAlreadyExists
			} else if err != repository.ErrTeamNotFound {
				return TeamItem{}, operation.ErrInternal
			}
			created, err := u.teams.CreateTeam(ctx, name)
			if err != nil {
				return TeamItem{}, mapRepoError(err)
			}
			return TeamItem{ID: created.ID, Name: created.Name}, nil
		})
	return op.Execute(ctx)
}

func (u *Team) DeleteTeam(ctx context.Context, actorID, teamID uuid.UUID) error {
	op := operation.New(actorID, u.perms, teamListPolicy(),
		func(ctx context.Context) (struct{}, error) {
			if err := u.teams.DeleteTeam(ctx, teamID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *Team) GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]TeamMemberItem, error) {
	op := operation.NewUnauthenticated(func(ctx context.Context) ([]TeamMemberItem, error) {
		if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
			return nil, mapRepoError(err)
		}
		members, err := u.teams.GetTeamMembers(ctx, teamID)
		if err != nil {
			return nil, operation.ErrInternal
		}
		out := make([]TeamMemberItem, 0, len(members))
		for _, m := range members {
			out = append(out, TeamMemberItem{UserID: m.UserID, Email: m.Email, IsAdmin: m.IsAdmin})
		}
		return out, nil
	})
	return op.Execute(ctx)
}

func (u *Team) AddUserToTeam(ctx context.Context, actorID, teamID, userID uuid.UUID) error {
	op := operation.New(actorID, u.perms, teamListPolicy(),
		func(ctx context.Context) (struct{}, error) {
			if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if _, err := u.users.GetUserByID(ctx, userID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if err := u.teams.AddMember(ctx, teamID, userID, false); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *Team) RemoveUserFromTeam(ctx context.Context, actorID, teamID, userID uuid.UUID) error {
	op := operation.New(actorID, u.perms, teamListPolicy(),
		func(ctx context.Context) (struct{}, error) {
			if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if err := u.teams.RemoveMember(ctx, teamID, userID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *Team) SetTeamMemberAdmin(ctx context.Context, actorID, teamID, userID uuid.UUID, isAdmin bool) error {
	op := operation.New(actorID, u.perms, teamListPolicy(),
		func(ctx context.Context) (struct{}, error) {
			if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if err := u.teams.SetMemberAdmin(ctx, teamID, userID, isAdmin); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}
