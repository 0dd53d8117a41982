package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"teamskills/internal/database"
	"teamskills/internal/permissions"
)

func Defaults(adminEmail, adminPassword string) []Seeder {
	return []Seeder{
		SchemaSeeder{},
		AdminSeeder{Email: adminEmail, Password: adminPassword},
	}
}

// AdminSeeder ensures one bootstrap user holding the ADMIN grant, so a
// fresh deployment has a principal able to hand out permissions. No-op when
// no credentials are configured. The user row and its grants commit in one
// transaction, and the grants are re-applied even when the user row already
// exists, so an interrupted earlier run cannot leave the deployment
// admin-less.
type AdminSeeder struct {
	Email    string
	Password string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email == "" || s.Password == "" {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	row := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email)
	var id uuid.UUID
	switch err := row.Scan(&id); {
	case err == nil:
		// existing user keeps its password; only the grants are ensured
	case errors.Is(err, pgx.ErrNoRows):
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		id = uuid.New()
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
			id, email, string(hash),
		); err != nil {
			return err
		}
	default:
		return err
	}

	grants := []permissions.Permission{permissions.PermAdmin, permissions.PermGuest}
	for _, p := range grants {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_global_permissions (user_id, permission) VALUES ($1, $2)
			 ON CONFLICT (user_id, permission) DO NOTHING`,
			id, string(p),
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
