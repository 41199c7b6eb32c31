package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"unihub/internal/model"
	"unihub/internal/repository"
)

const uniqueViolation = "23505"

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, fullname, email, university, password, major, created_at`

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (fullname, email, university, password, major, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.Fullname,
		u.Email,
		u.University,
		u.PasswordHash,
		u.Major,
		u.CreatedAt,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByEmail fetches a single user by email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// FindByID fetches a single user by id.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// UpdateProfile overwrites the editable profile fields and returns the updated row.
func (r *UserPostgres) UpdateProfile(ctx context.Context, id string, p repository.ProfileUpdate) (*model.User, error) {
	const q = `
		UPDATE users SET fullname = $1, university = $2, major = $3
		WHERE id = $4
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, p.Fullname, p.University, p.Major, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserPostgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE users SET password = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, passwordHash, id)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u     model.User
		major sql.NullString
	)
	if err := row.Scan(
		&u.ID,
		&u.Fullname,
		&u.Email,
		&u.University,
		&u.PasswordHash,
		&major,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	if major.Valid {
		m := major.String
		u.Major = &m
	}
	return &u, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
