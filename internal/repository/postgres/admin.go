package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/learnhub/learnhub/internal/domain"
	"github.com/learnhub/learnhub/pkg/database"
	apperrors "github.com/learnhub/learnhub/pkg/errors"
)

// AdminRepository implements repository.AdminRepository using PostgreSQL.
// Admins are create/read/delete only: there is no update.
type AdminRepository struct {
	pool database.DBTX
}

// NewAdminRepository creates a new PostgreSQL-backed admin repository.
func NewAdminRepository(pool database.DBTX) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// Create inserts a new admin into the database.
func (r *AdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `
		INSERT INTO admins (id, email, name, age, password_hash, has_elevated_access, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Email,
		a.Name,
		a.Age,
		a.PasswordHash,
		a.HasElevatedAccess,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("admin", "email", a.Email)
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	return nil
}

// GetByID retrieves an admin by their ID.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, age, password_hash, has_elevated_access, created_at, updated_at
		FROM admins
		WHERE id = $1`

	return r.scanAdmin(ctx, query, id)
}

// GetByEmail retrieves an admin by their email address.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, age, password_hash, has_elevated_access, created_at, updated_at
		FROM admins
		WHERE email = $1`

	return r.scanAdmin(ctx, query, email)
}

// List returns all admins ordered by creation time.
func (r *AdminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	query := `
		SELECT id, email, name, age, password_hash, has_elevated_access, created_at, updated_at
		FROM admins
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(
			&a.ID,
			&a.Email,
			&a.Name,
			&a.Age,
			&a.PasswordHash,
			&a.HasElevatedAccess,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan admin row: %w", err)
		}
		admins = append(admins, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin rows: %w", err)
	}

	if admins == nil {
		admins = []domain.Admin{}
	}

	return admins, nil
}

// Delete removes an admin from the database by their ID.
func (r *AdminRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM admins WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("admin", id)
	}

	return nil
}

func (r *AdminRepository) scanAdmin(ctx context.Context, query string, args ...any) (*domain.Admin, error) {
	var a domain.Admin

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.Email,
		&a.Name,
		&a.Age,
		&a.PasswordHash,
		&a.HasElevatedAccess,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}

	return &a, nil
}
