package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vkravchuk/courseshop/internal/domain"
)

const userColumns = `id, user_name, email, password_hash, role,
	password_changed_at, reset_token_hash, reset_token_expires_at,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (user_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, user.UserName, user.Email, user.PasswordHash, user.Role)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadPurchases(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadPurchases(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateName(ctx context.Context, id, userName string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET user_name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id, userName)
	return scanUser(row)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET    password_hash          = $2,
		       password_changed_at    = NOW(),
		       reset_token_hash       = NULL,
		       reset_token_expires_at = NULL,
		       updated_at             = NOW()
		WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET    reset_token_hash       = $2,
		       reset_token_expires_at = $3,
		       updated_at             = NOW()
		WHERE id = $1`, id, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET    reset_token_hash       = NULL,
		       reset_token_expires_at = NULL,
		       updated_at             = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}

func (r *UserRepository) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET    reset_token_hash       = NULL,
		       reset_token_expires_at = NULL,
		       updated_at             = NOW()
		WHERE reset_token_hash IS NOT NULL
		  AND reset_token_expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepository) loadPurchases(ctx context.Context, u *domain.User) error {
	rows, err := r.pool.Query(ctx,
		`SELECT course_id FROM purchases WHERE user_id = $1 ORDER BY granted_at`, u.ID)
	if err != nil {
		return fmt.Errorf("load purchases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID string
		if err := rows.Scan(&courseID); err != nil {
			return fmt.Errorf("scan purchase: %w", err)
		}
		u.PurchasedCourses = append(u.PurchasedCourses, courseID)
	}
	return rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.Role,
		&u.PasswordChangedAt, &u.ResetTokenHash, &u.ResetTokenExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
