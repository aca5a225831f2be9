package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/atelierhq/atelier-api/internal/database"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userTestColumns = []string{
	"id", "google_id", "email", "name", "picture", "role", "tenant_id",
	"external_claims", "last_login_at", "created_at", "updated_at",
}

func setupUserService(t *testing.T, superAdminEmails ...string) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewUserService(db, superAdminEmails), mock
}

func userRow(id uuid.UUID, googleID, email string, role models.Role, tenantID *uuid.UUID, claims json.RawMessage) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userTestColumns).
		AddRow(id, googleID, email, "Jane Doe", "https://example.com/jane.png", role, tenantID, claims, now, now, now)
}

func TestUserService_FindOrCreate_ExistingUserRefreshed(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	userID := uuid.New()
	claims := json.RawMessage(`{"sub":"google-123","email":"jane@example.com"}`)
	identity := ExternalIdentity{
		GoogleID: "google-123",
		Email:    "jane@example.com",
		Name:     "Jane Doe",
		Claims:   claims,
	}

	mock.ExpectQuery(`UPDATE users SET last_login_at = NOW\(\), external_claims`).
		WithArgs(claims, "google-123").
		WillReturnRows(userRow(userID, "google-123", identity.Email, models.RoleAdmin, nil, claims))

	user, err := svc.FindOrCreate(ctx, identity, nil)

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindOrCreate_NewUserIsAdmin(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	userID := uuid.New()
	tenantID := uuid.New()
	claims := json.RawMessage(`{"sub":"google-456"}`)
	identity := ExternalIdentity{
		GoogleID: "google-456",
		Email:    "new@example.com",
		Name:     "Jane Doe",
		Picture:  "https://example.com/jane.png",
		Claims:   claims,
	}

	mock.ExpectQuery(`UPDATE users SET last_login_at`).
		WithArgs(claims, "google-456").
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("google-456", identity.Email, identity.Name, identity.Picture,
			models.RoleAdmin, &tenantID, claims).
		WillReturnRows(userRow(userID, "google-456", identity.Email, models.RoleAdmin, &tenantID, claims))

	user, err := svc.FindOrCreate(ctx, identity, &tenantID)

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	require.NotNil(t, user.TenantID)
	assert.Equal(t, tenantID, *user.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindOrCreate_AllowListGrantsSuperAdmin(t *testing.T) {
	svc, mock := setupUserService(t, "boss@atelier.io")
	ctx := context.Background()

	claims := json.RawMessage(`{"sub":"google-789"}`)
	identity := ExternalIdentity{
		GoogleID: "google-789",
		Email:    "boss@atelier.io",
		Name:     "Jane Doe",
		Claims:   claims,
	}

	mock.ExpectQuery(`UPDATE users SET last_login_at`).
		WithArgs(claims, "google-789").
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("google-789", identity.Email, identity.Name, "",
			models.RoleSuperAdmin, (*uuid.UUID)(nil), claims).
		WillReturnRows(userRow(uuid.New(), "google-789", identity.Email, models.RoleSuperAdmin, nil, claims))

	user, err := svc.FindOrCreate(ctx, identity, nil)

	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	user, err := svc.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateRole_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users SET role`).
		WithArgs(models.RoleSuperAdmin, id).
		WillReturnError(pgx.ErrNoRows)

	user, err := svc.UpdateRole(context.Background(), id, models.RoleSuperAdmin)

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ListByTenant(t *testing.T) {
	svc, mock := setupUserService(t)
	tenantID := uuid.New()
	claims := json.RawMessage(`{}`)

	rows := userRow(uuid.New(), "g-1", "a@example.com", models.RoleAdmin, &tenantID, claims)
	now := time.Now()
	rows.AddRow(uuid.New(), "g-2", "b@example.com", "Jane Doe", "", models.RoleAdmin, &tenantID, claims, now, now, now)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE tenant_id`).
		WithArgs(tenantID).
		WillReturnRows(rows)

	users, err := svc.ListByTenant(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Delete(t *testing.T) {
	svc, mock := setupUserService(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := svc.Delete(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := svc.Delete(context.Background(), id)

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
