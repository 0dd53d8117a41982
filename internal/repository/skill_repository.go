package repository

import (
	"context"
	"errors"

	"teamskills/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSkillNotFound        = errors.New("skill not found")
	ErrSkillExists          = errors.New("skill already exists")
	ErrPrerequisiteNotFound = errors.New("skill prerequisite not found")
	ErrPrerequisiteExists   = errors.New("skill prerequisite already exists")
)

type Skill struct {
	ID   uuid.UUID
	Name string
}

type SkillRepository interface {
	CreateSkill(ctx context.Context, name string) (Skill, error)
	GetSkillByID(ctx context.Context, id uuid.UUID) (Skill, error)
	GetSkillByName(ctx context.Context, name string) (Skill, error)
	ListSkills(ctx context.Context) ([]Skill, error)
	DeleteSkill(ctx context.Context, id uuid.UUID) error

	AddPrerequisite(ctx context.Context, skillID, prerequisiteID uuid.UUID) error
	RemovePrerequisite(ctx context.Context, skillID, prerequisiteID uuid.UUID) error
	// GetPrerequisites lists skills the given skill requires first.
	GetPrerequisites(ctx context.Context, skillID uuid.UUID) ([]Skill, error)
	// GetContributions is the inverse view: skills that require the given
	// skill as a prerequisite.
	GetContributions(ctx context.Context, skillID uuid.UUID) ([]Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, name string) (Skill, error) {
	id := uuid.New()
	affected, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		id, name,
	)
	if err != nil {
		return Skill{}, err
	}
	if affected == 0 {
		return Skill{}, ErrSkillExists
	}
	return Skill{ID: id, Name: name}, nil
}

func (r *PostgresSkillRepository) GetSkillByID(ctx context.Context, id uuid.UUID) (Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name FROM skills WHERE id = $1`, id)
	return scanSkill(row)
}

func (r *PostgresSkillRepository) GetSkillByName(ctx context.Context, name string) (Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name FROM skills WHERE name = $1`, name)
	return scanSkill(row)
}

func scanSkill(row database.Row) (Skill, error) {
	var s Skill
	if err := row.Scan(&s.ID, &s.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		return Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSkills(rows)
}

func (r *PostgresSkillRepository) DeleteSkill(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *PostgresSkillRepository) AddPrerequisite(ctx context.Context, skillID, prerequisiteID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`INSERT INTO skill_prerequisites (skill_id, skill_prerequisite_id) VALUES ($1, $2)
		 ON CONFLICT (skill_id, skill_prerequisite_id) DO NOTHING`,
		skillID, prerequisiteID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPrerequisiteExists
	}
	return nil
}

func (r *PostgresSkillRepository) RemovePrerequisite(ctx context.Context, skillID, prerequisiteID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM skill_prerequisites WHERE skill_id = $1 AND skill_prerequisite_id = $2`,
		skillID, prerequisiteID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPrerequisiteNotFound
	}
	return nil
}

func (r *PostgresSkillRepository) GetPrerequisites(ctx context.Context, skillID uuid.UUID) ([]Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.name
		 FROM skill_prerequisites sp
		 JOIN skills s ON s.id = sp.skill_prerequisite_id
		 WHERE sp.skill_id = $1
		 ORDER BY s.name ASC`,
		skillID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSkills(rows)
}

func (r *PostgresSkillRepository) GetContributions(ctx context.Context, skillID uuid.UUID) ([]Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.name
		 FROM skill_prerequisites sp
		 JOIN skills s ON s.id = sp.skill_id
		 WHERE sp.skill_prerequisite_id = $1
		 ORDER BY s.name ASC`,
		skillID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSkills(rows)
}

func collectSkills(rows database.Rows) ([]Skill, error) {
	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
