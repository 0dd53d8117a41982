package usecase

import (
	"context"
	"errors"
	"sync"

	"teamskills/internal/operation"
	"teamskills/internal/permissions"
	"teamskills/internal/repository"
	"teamskills/internal/ws"

	"github.com/google/uuid"
)

type TeamSkillItem struct {
	TeamSkillID     uuid.UUID
	TeamID          uuid.UUID
	SkillID         uuid.UUID
	SkillName       string
	UpvotingUserIDs []uuid.UUID
}

type TeamStatistics struct {
	TeamID     uuid.UUID
	Skills     []TeamSkillItem
	TotalTeams int
}

type TeamSkillUsecase interface {
	AddTeamSkill(ctx context.Context, actorID, teamID, skillID uuid.UUID) (TeamSkillItem, error)
	RemoveTeamSkill(ctx context.Context, actorID, teamID, skillID uuid.UUID) error
	Upvote(ctx context.Context, actorID, teamID, skillID uuid.UUID) (TeamSkillItem, error)
	Downvote(ctx context.Context, actorID, teamID, skillID uuid.UUID) (TeamSkillItem, error)
	GetTeamSkills(ctx context.Context, teamID uuid.UUID) ([]TeamSkillItem, error)
	GetTeamStatistics(ctx context.Context, teamID uuid.UUID) (TeamStatistics, error)
}

// votePermissions gates both vote directions; ownership of the retracted
// vote is checked separately inside the downvote body.
var votePermissions = []permissions.Permission{
	permissions.PermReader,
	permissions.PermSkillsListAdmin,
	permissions.PermTeamsListAdmin,
}

type TeamSkill struct {
	teamSkills repository.TeamSkillRepository
	teams      repository.TeamRepository
	skills     repository.SkillRepository
	perms      operation.PermissionSource
}

func NewTeamSkillUsecase(
	teamSkills repository.TeamSkillRepository,
	teams repository.TeamRepository,
	skills repository.SkillRepository,
	perms operation.PermissionSource,
) *TeamSkill {
	return &TeamSkill{teamSkills: teamSkills, teams: teams, skills: skills, perms: perms}
}

// teamSkillPolicy admits TEAMS_LIST_ADMIN (and ADMIN) globally, or any
// member of the target team: a team manages its own skill list.
func (u *TeamSkill) teamSkillPolicy(teamID uuid.UUID) operation.Policy {
	return operation.AnyOf(
		operation.RequireAny(permissions.PermTeamsListAdmin),
		operation.TeamMember(u.teams, teamID),
	)
}

func (u *TeamSkill) AddTeamSkill(ctx context.Context, actorID, teamID, skillID uuid.UUID) (TeamSkillItem, error) {
	op := operation.New(actorID, u.perms, u.teamSkillPolicy(teamID),
		func(ctx context.Context) (TeamSkillItem, error) {
			return u.addTeamSkill(ctx, teamID, skillID)
		})
	return op.Execute(ctx)
}

func (u *TeamSkill) addTeamSkill(ctx context.Context, teamID, skillID uuid.UUID) (TeamSkillItem, error) {
	if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
		return TeamSkillItem{}, mapRepoError(err)
	}
	skill, err := u.skills.GetSkillByID(ctx, skillID)
	if err != nil {
		return TeamSkillItem{}, mapRepoError(err)
	}

	ts, err := u.teamSkills.AddTeamSkill(ctx, teamID, skillID)
	if err != nil {
		return TeamSkillItem{}, mapRepoError(err)
	}
	return TeamSkillItem{
		TeamSkillID:     ts.ID,
		TeamID:          teamID,
		SkillID:         skillID,
		SkillName:       skill.Name,
		UpvotingUserIDs: []uuid.UUID{},
	}, nil
}

func (u *TeamSkill) RemoveTeamSkill(ctx context.Context, actorID, teamID, skillID uuid.UUID) error {
	op := operation.New(actorID, u.perms, u.teamSkillPolicy(teamID),
		func(ctx context.Context) (struct{}, error) {
			if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			if err := u.teamSkills.RemoveTeamSkill(ctx, teamID, skillID); err != nil {
				return struct{}{}, mapRepoError(err)
			}
			return struct{}{}, nil
		})
	_, err := op.Execute(ctx)
	return err
}

func (u *TeamSkill) Upvote(ctx context.Context, actorID, teamID, skillID uuid.UUID) (TeamSkillItem, error) {
	op := operation.New(actorID, u.perms, operation.RequireAny(votePermissions...),
		func(ctx context.Context) (TeamSkillItem, error) {
			return u.castVote(ctx, actorID, teamID, skillID, true)
		})
	return op.Execute(ctx)
}

func (u *TeamSkill) Downvote(ctx context.Context, actorID, teamID, skillID uuid.UUID) (TeamSkillItem, error) {
	op := operation.New(actorID, u.perms, operation.RequireAny(votePermissions...),
		func(ctx context.Context) (TeamSkillItem, error) {
			return u.castVote(ctx, actorID, teamID, skillID, false)
		})
	return op.Execute(ctx)
}

func (u *TeamSkill) castVote(ctx context.Context, actorID, teamID, skillID uuid.UUID, up bool) (TeamSkillItem, error) {
	if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
		return TeamSkillItem{}, mapRepoError(err)
	}

	listed, err := u.teamSkills.GetTeamSkills(ctx, teamID)
	if err != nil {
		return TeamSkillItem{}, operation.ErrInternal
	}

	var target repository.TeamSkill
	found := false
	for _, ts := range listed {
		if ts.SkillID == skillID {
			target = ts
			found = true
			break
		}
	}
	if !found {
		// No vote record is ever created or removed for a skill the team
		// does not claim.
		return TeamSkillItem{}, operation.ErrDomainRule
	}

	if up {
		// Idempotent: re-upvoting by the same user is a no-op success.
		if err := u.teamSkills.Upvote(ctx, target.ID, actorID); err != nil {
			return TeamSkillItem{}, operation.ErrInternal
		}
		if !containsID(target.UpvotingUserIDs, actorID) {
			target.UpvotingUserIDs = append(target.UpvotingUserIDs, actorID)
		}
		ws.NotifyTeamSkillVote(teamID, skillID, actorID, ws.VoteActionUpvote)
	} else {
		removed, err := u.teamSkills.RemoveUpvote(ctx, target.ID, actorID)
		if err != nil {
			return TeamSkillItem{}, operation.ErrInternal
		}
		if !removed {
			// Only the owner of an upvote may retract it; with nothing of
			// the actor's to retract the operation fails and every other
			// user's vote stays put.
			return TeamSkillItem{}, operation.ErrDomainRule
		}
		target.UpvotingUserIDs = removeID(target.UpvotingUserIDs, actorID)
		ws.NotifyTeamSkillVote(teamID, skillID, actorID, ws.VoteActionDownvote)
	}

	return TeamSkillItem{
		TeamSkillID:     target.ID,
		TeamID:          teamID,
		SkillID:         skillID,
		SkillName:       target.SkillName,
		UpvotingUserIDs: target.UpvotingUserIDs,
	}, nil
}

func (u *TeamSkill) GetTeamSkills(ctx context.Context, teamID uuid.UUID) ([]TeamSkillItem, error) {
	op := operation.NewUnauthenticated(func(ctx context.Context) ([]TeamSkillItem, error) {
		return u.getTeamSkills(ctx, teamID)
	})
	return op.Execute(ctx)
}

func (u *TeamSkill) getTeamSkills(ctx context.Context, teamID uuid.UUID) ([]TeamSkillItem, error) {
	if _, err := u.teams.GetTeamByID(ctx, teamID); err != nil {
		return nil, mapRepoError(err)
	}
	listed, err := u.teamSkills.GetTeamSkills(ctx, teamID)
	if err != nil {
		return nil, operation.ErrInternal
	}

	out := make([]TeamSkillItem, 0, len(listed))
	for _, ts := range listed {
		out = append(out, TeamSkillItem{
			TeamSkillID:     ts.ID,
			TeamID:          ts.TeamID,
			SkillID:         ts.SkillID,
			SkillName:       ts.SkillName,
			UpvotingUserIDs: ts.UpvotingUserIDs,
		})
	}
	return out, nil
}

// GetTeamStatistics fans out the team-skill fetch and the team count; the
// two reads have no ordering dependency and join before the result is built.
func (u *TeamSkill) GetTeamStatistics(ctx context.Context, teamID uuid.UUID) (TeamStatistics, error) {
	op := operation.NewUnauthenticated(func(ctx context.Context) (TeamStatistics, error) {
		var (
			wg       sync.WaitGroup
			skills   []TeamSkillItem
			skillErr error
			total    int
			totalErr error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			skills, skillErr = u.getTeamSkills(ctx, teamID)
		}()
		go func() {
			defer wg.Done()
			total, totalErr = u.teams.CountTeams(ctx)
		}()
		wg.Wait()

		if skillErr != nil {
			return TeamStatistics{}, skillErr
		}
		if totalErr != nil {
			return TeamStatistics{}, operation.ErrInternal
		}
		return TeamStatistics{TeamID: teamID, Skills: skills, TotalTeams: total}, nil
	})
	return op.Execute(ctx)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrTeamNotFound),
		errors.Is(err, repository.ErrSkillNotFound),
		errors.Is(err, repository.ErrTeamSkillNotFound),
		errors.Is(err, repository.ErrMemberNotFound),
		errors.Is(err, repository.ErrPrerequisiteNotFound):
		return operation.ErrNotFound
	case errors.Is(err, repository.ErrUserExists),
		errors.Is(err, repository.ErrTeamExists),
		errors.Is(err, repository.ErrSkillExists),
		errors.Is(err, repository.ErrTeamSkillExists),
		errors.Is(err, repository.ErrMemberExists),
		errors.Is(err, repository.ErrPrerequisiteExists):
		return operation.ErrAlreadyExists
	default:
		return operation.ErrInternal
	}
}
