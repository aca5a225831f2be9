package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atelierhq/atelier-api/internal/database"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, google_id, email, name, picture, role, tenant_id,
	external_claims, last_login_at, created_at, updated_at`

type UserService struct {
	db *database.DB
	// superAdminEmails grants super_admin to matching identities on first login.
	superAdminEmails []string
}

func NewUserService(db *database.DB, superAdminEmails []string) *UserService {
	return &UserService{db: db, superAdminEmails: superAdminEmails}
}

// ExternalIdentity carries the verified claims of a federated login.
type ExternalIdentity struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
	Claims   json.RawMessage
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.Role, &u.TenantID,
		&u.ExternalClaims, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (s *UserService) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE google_id = $1
	`, googleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// FindOrCreate is the sole path that creates users. An existing record (by
// google_id) gets its last login and cached provider claims refreshed; a new
// record is admin unless the email is on the super-admin allow-list.
func (s *UserService) FindOrCreate(ctx context.Context, identity ExternalIdentity, tenantID *uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET last_login_at = NOW(), external_claims = $1, updated_at = NOW()
		WHERE google_id = $2
		RETURNING `+userColumns, identity.Claims, identity.GoogleID))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to refresh user: %w", err)
	}

	role := models.RoleAdmin
	for _, email := range s.superAdminEmails {
		if email == identity.Email {
			role = models.RoleSuperAdmin
			break
		}
	}

	user, err = scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (google_id, email, name, picture, role, tenant_id, external_claims, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING `+userColumns,
		identity.GoogleID, identity.Email, identity.Name, identity.Picture,
		role, tenantID, identity.Claims))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *UserService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users WHERE tenant_id = $1 ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, role, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (s *UserService) AssignToTenant(ctx context.Context, id, tenantID uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET tenant_id = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
