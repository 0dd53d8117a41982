package seeder

import (
	"context"

	"teamskills/internal/database"
)

// SchemaSeeder creates the tables and the unique indexes the operation
// layer relies on: concurrent check-then-act sequences (duplicate upvotes,
// duplicate prerequisite edges, duplicate memberships) are closed out at
// the storage layer, not re-implemented above it.
type SchemaSeeder struct{}

func (SchemaSeeder) Name() string { return "schema" }

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_global_permissions (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		permission TEXT NOT NULL,
		PRIMARY KEY (user_id, permission)
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS team_skills (
		id UUID PRIMARY KEY,
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		skill_id UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		UNIQUE (team_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS team_skill_upvotes (
		team_skill_id UUID NOT NULL REFERENCES team_skills(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (team_skill_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS skill_prerequisites (
		skill_id UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		skill_prerequisite_id UUID NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		PRIMARY KEY (skill_id, skill_prerequisite_id)
	)`,
}

// requiredColumns is checked after the DDL runs; it catches a database
// created by an older build whose tables survived the IF NOT EXISTS guard.
var requiredColumns = map[string][]string{
	"users":                   {"id", "email", "password_hash", "created_at"},
	"user_global_permissions": {"user_id", "permission"},
	"teams":                   {"id", "name"},
	"team_members":            {"team_id", "user_id", "is_admin"},
	"skills":                  {"id", "name"},
	"team_skills":             {"id", "team_id", "skill_id"},
	"team_skill_upvotes":      {"team_skill_id", "user_id"},
	"skill_prerequisites":     {"skill_id", "skill_prerequisite_id"},
}

func (SchemaSeeder) Run(ctx context.Context, db database.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	for table, columns := range requiredColumns {
		if err := EnsureTableColumns(ctx, db, table, columns...); err != nil {
			return err
		}
	}
	return nil
}
