package repository

import (
	"context"
	"errors"

	"teamskills/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrTeamExists     = errors.New("team already exists")
	ErrMemberNotFound = errors.New("team member not found")
	ErrMemberExists   = errors.New("user already a team member")
)

type Team struct {
	ID   uuid.UUID
	Name string
}

type TeamMember struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

type TeamRepository interface {
	CreateTeam(ctx context.Context, name string) (Team, error)
	GetTeamByID(ctx context.Context, id uuid.UUID) (Team, error)
	GetTeamByName(ctx context.Context, name string) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	DeleteTeam(ctx context.Context, id uuid.UUID) error
	CountTeams(ctx context.Context) (int, error)

	GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]TeamMember, error)
	IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, teamID, userID uuid.UUID, isAdmin bool) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	SetMemberAdmin(ctx context.Context, teamID, userID uuid.UUID, isAdmin bool) error
}

type PostgresTeamRepository struct {
	db database.DB
}

func NewPostgresTeamRepository(db database.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

func (r *PostgresTeamRepository) CreateTeam(ctx context.Context, name string) (Team, error) {
	id := uuid.New()
	affected, err := r.db.Exec(ctx,
		`INSERT INTO teams (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		id, name,
	)
	if err != nil {
		return Team{}, err
	}
	if affected == 0 {
		return Team{}, ErrTeamExists
	}
	return Team{ID: id, Name: name}, nil
}

func (r *PostgresTeamRepository) GetTeamByID(ctx context.Context, id uuid.UUID) (Team, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name FROM teams WHERE id = $1`, id)
	return scanTeam(row)
}

func (r *PostgresTeamRepository) GetTeamByName(ctx context.Context, name string) (Team, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name FROM teams WHERE name = $1`, name)
	return scanTeam(row)
}

func scanTeam(row database.Row) (Team, error) {
	var t Team
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Team{}, ErrTeamNotFound
		}
		return Team{}, err
	}
	return t, nil
}

func (r *PostgresTeamRepository) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Team, 0)
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresTeamRepository) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *PostgresTeamRepository) CountTeams(ctx context.Context) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresTeamRepository) GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]TeamMember, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tm.user_id, u.email, tm.is_admin
		 FROM team_members tm
		 JOIN users u ON u.id = tm.user_id
		 WHERE tm.team_id = $1
		 ORDER BY u.email ASC`,
		teamID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TeamMember, 0)
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.UserID, &m.Email, &m.IsAdmin); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresTeamRepository) IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`,
		teamID, userID,
	)
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *PostgresTeamRepository) AddMember(ctx context.Context, teamID, userID uuid.UUID, isAdmin bool) error {
	affected, err := r.db.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, is_admin) VALUES ($1, $2, $3)
		 ON CONFLICT (team_id, user_id) DO NOTHING`,
		teamID, userID, isAdmin,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMemberExists
	}
	return nil
}

func (r *PostgresTeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
		teamID, userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *PostgresTeamRepository) SetMemberAdmin(ctx context.Context, teamID, userID uuid.UUID, isAdmin bool) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE team_members SET is_admin = $3 WHERE team_id = $1 AND user_id = $2`,
		teamID, userID, isAdmin,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
