package userdirectory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkarasev/zkid/internal/common"
	"github.com/dkarasev/zkid/internal/dbx"
	"github.com/dkarasev/zkid/internal/group"
)

const pgUniqueViolation = "23505"

// PostgresDirectory is the Directory backed by the "users" table of spec §6.
type PostgresDirectory struct {
	db dbx.DBTX
}

// NewPostgresDirectory wraps db, which may be a *sql.DB or an active
// *sql.Tx courtesy of dbx.DBTX.
func NewPostgresDirectory(db dbx.DBTX) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (r *PostgresDirectory) Create(ctx context.Context, username string, y *big.Int, salt string) (*UserRecord, error) {
	query := `
		INSERT INTO users (username, public_key_y, salt)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	rec := &UserRecord{Username: username, PublicKeyY: y, Salt: salt}
	err := r.db.QueryRowContext(ctx, query, username, group.EncodeHex(y), salt).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("userdirectory: insert: %w", err)
	}

	return rec, nil
}

func (r *PostgresDirectory) GetByUsername(ctx context.Context, username string) (*UserRecord, error) {
	query := `
		SELECT id, username, public_key_y, salt, last_login_at, created_at
		FROM users
		WHERE username = $1
	`

	var (
		rec       UserRecord
		yHex      string
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&rec.ID, &rec.Username, &yHex, &rec.Salt, &lastLogin, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("userdirectory: select: %w", err)
	}

	y, err := group.DecodeHex(yHex)
	if err != nil {
		return nil, fmt.Errorf("userdirectory: stored public_key_y is not valid hex: %w", err)
	}
	rec.PublicKeyY = y
	if lastLogin.Valid {
		rec.LastLoginAt = &lastLogin.Time
	}

	return &rec, nil
}

func (r *PostgresDirectory) TouchLastLogin(ctx context.Context, username string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $1, updated_at = now() WHERE username = $2`
	_, err := r.db.ExecContext(ctx, query, at, username)
	if err != nil {
		return fmt.Errorf("userdirectory: touch last_login_at: %w", err)
	}
	return nil
}

var _ Directory = (*PostgresDirectory)(nil)
