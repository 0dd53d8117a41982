package repository

import (
	"context"
	"errors"
	"time"

	"teamskills/internal/database"
	"teamskills/internal/permissions"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepository interface {
	// CreateUserWithGrants inserts the user row and its initial global
	// grants in one transaction; a user row never exists without them.
	CreateUserWithGrants(ctx context.Context, u User, grants []permissions.Permission) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]User, error)

	GetGlobalPermissions(ctx context.Context, userID uuid.UUID) (permissions.Set, error)
	AddGlobalPermissions(ctx context.Context, userID uuid.UUID, perms []permissions.Permission) error
	RemoveGlobalPermissions(ctx context.Context, userID uuid.UUID, perms []permissions.Permission) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUserWithGrants(ctx context.Context, u User, grants []permissions.Permission) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		u.ID, u.Email, u.PasswordHash,
	); err != nil {
		return err
	}
	for _, p := range grants {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_global_permissions (user_id, permission) VALUES ($1, $2)
			 ON CONFLICT (user_id, permission) DO NOTHING`,
			u.ID, string(p),
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

func scanUser(row database.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, password_hash, created_at FROM users ORDER BY email ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserRepository) GetGlobalPermissions(ctx context.Context, userID uuid.UUID) (permissions.Set, error) {
	rows, err := r.db.Query(ctx,
		`SELECT permission FROM user_global_permissions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := permissions.NewSet()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if p, ok := permissions.Parse(name); ok {
			set.Add(p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

func (r *PostgresUserRepository) AddGlobalPermissions(ctx context.Context, userID uuid.UUID, perms []permissions.Permission) error {
	for _, p := range perms {
		_, err := r.db.Exec(ctx,
			`INSERT INTO user_global_permissions (user_id, permission) VALUES ($1, $2)
			 ON CONFLICT (user_id, permission) DO NOTHING`,
			userID, string(p),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresUserRepository) RemoveGlobalPermissions(ctx context.Context, userID uuid.UUID, perms []permissions.Permission) error {
	for _, p := range perms {
		_, err := r.db.Exec(ctx,
			`DELETE FROM user_global_permissions WHERE user_id = $1 AND permission = $2`,
			userID, string(p),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
