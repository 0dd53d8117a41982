package repository

import (
	"context"
	"errors"

	"teamskills/internal/database"

	"github.com/google/uuid"
)

var (
	ErrTeamSkillNotFound = errors.New("team skill not found")
	ErrTeamSkillExists   = errors.New("team skill already exists")
)

// TeamSkill is the association between a team and a skill it claims to
// know, carrying the ids of every member whose upvote affirms the claim.
type TeamSkill struct {
	ID              uuid.UUID
	TeamID          uuid.UUID
	SkillID         uuid.UUID
	SkillName       string
	UpvotingUserIDs []uuid.UUID
}

type TeamSkillRepository interface {
	GetTeamSkills(ctx context.Context, teamID uuid.UUID) ([]TeamSkill, error)
	AddTeamSkill(ctx context.Context, teamID, skillID uuid.UUID) (TeamSkill, error)
	RemoveTeamSkill(ctx context.Context, teamID, skillID uuid.UUID) error

	// Upvote records an upvote; a second call for the same pair is a no-op.
	Upvote(ctx context.Context, teamSkillID, userID uuid.UUID) error
	// RemoveUpvote deletes the user's upvote, reporting whether one existed.
	RemoveUpvote(ctx context.Context, teamSkillID, userID uuid.UUID) (bool, error)
}

type PostgresTeamSkillRepository struct {
	db database.DB
}

func NewPostgresTeamSkillRepository(db database.DB) *PostgresTeamSkillRepository {
	return &PostgresTeamSkillRepository{db: db}
}

func (r *PostgresTeamSkillRepository) GetTeamSkills(ctx context.Context, teamID uuid.UUID) ([]TeamSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ts.id, ts.team_id, ts.skill_id, s.name
		 FROM team_skills ts
		 JOIN skills s ON s.id = ts.skill_id
		 WHERE ts.team_id = $1
		 ORDER BY s.name ASC`,
		teamID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TeamSkill, 0)
	for rows.Next() {
		var ts TeamSkill
		if err := rows.Scan(&ts.ID, &ts.TeamID, &ts.SkillID, &ts.SkillName); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		votes, err := r.upvotingUserIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].UpvotingUserIDs = votes
	}
	return out, nil
}

func (r *PostgresTeamSkillRepository) upvotingUserIDs(ctx context.Context, teamSkillID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM team_skill_upvotes WHERE team_skill_id = $1`,
		teamSkillID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresTeamSkillRepository) AddTeamSkill(ctx context.Context, teamID, skillID uuid.UUID) (TeamSkill, error) {
	id := uuid.New()
	affected, err := r.db.Exec(ctx,
		`INSERT INTO team_skills (id, team_id, skill_id) VALUES ($1, $2, $3)
		 ON CONFLICT (team_id, skill_id) DO NOTHING`,
		id, teamID, skillID,
	)
	if err != nil {
		return TeamSkill{}, err
	}
	if affected == 0 {
		return TeamSkill{}, ErrTeamSkillExists
	}
	return TeamSkill{ID: id, TeamID: teamID, SkillID: skillID, UpvotingUserIDs: []uuid.UUID{}}, nil
}

func (r *PostgresTeamSkillRepository) RemoveTeamSkill(ctx context.Context, teamID, skillID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM team_skills WHERE team_id = $1 AND skill_id = $2`,
		teamID, skillID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTeamSkillNotFound
	}
	return nil
}

func (r *PostgresTeamSkillRepository) Upvote(ctx context.Context, teamSkillID, userID uuid.UUID) error {
	// The unique index on (team_skill_id, user_id) makes concurrent upvotes
	// from the same user converge to a single row.
	_, err := r.db.Exec(ctx,
		`INSERT INTO team_skill_upvotes (team_skill_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (team_skill_id, user_id) DO NOTHING`,
		teamSkillID, userID,
	)
	return err
}

func (r *PostgresTeamSkillRepository) RemoveUpvote(ctx context.Context, teamSkillID, userID uuid.UUID) (bool, error) {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM team_skill_upvotes WHERE team_skill_id = $1 AND user_id = $2`,
		teamSkillID, userID,
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
