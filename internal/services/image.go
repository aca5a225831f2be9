package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atelierhq/atelier-api/internal/database"
	"github.com/atelierhq/atelier-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

const imageColumns = `id, tenant_id, public_id, url, folder, alt_text, tags,
	width, height, bytes, format, created_at, updated_at`

const (
	defaultPage  = 1
	defaultLimit = 50
)

type ImageService struct {
	db *database.DB
}

func NewImageService(db *database.DB) *ImageService {
	return &ImageService{db: db}
}

type CreateImageParams struct {
	TenantID *uuid.UUID
	PublicID string
	URL      string
	Folder   string
	AltText  string
	Tags     []string
	Width    *int
	Height   *int
	Bytes    *int64
	Format   *string
}

type UpdateImageParams struct {
	AltText *string
	Tags    []string
}

type ListImagesParams struct {
	TenantID *uuid.UUID
	Folder   string
	Tags     []string
	Page     int
	Limit    int
}

type ImageList struct {
	Items []models.Image `json:"items"`
	Total int            `json:"total"`
}

type ImageStats struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"totalBytes"`
}

func scanImage(row pgx.Row) (*models.Image, error) {
	var img models.Image
	err := row.Scan(
		&img.ID, &img.TenantID, &img.PublicID, &img.URL, &img.Folder, &img.AltText,
		&img.Tags, &img.Width, &img.Height, &img.Bytes, &img.Format,
		&img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *ImageService) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	img, err := scanImage(s.db.Pool.QueryRow(ctx, `
		SELECT `+imageColumns+` FROM images WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return img, err
}

func (s *ImageService) GetByPublicID(ctx context.Context, publicID string) (*models.Image, error) {
	img, err := scanImage(s.db.Pool.QueryRow(ctx, `
		SELECT `+imageColumns+` FROM images WHERE public_id = $1
	`, publicID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return img, err
}

func (s *ImageService) GetByURL(ctx context.Context, url string) (*models.Image, error) {
	img, err := scanImage(s.db.Pool.QueryRow(ctx, `
		SELECT `+imageColumns+` FROM images WHERE url = $1
	`, url))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return img, err
}

func (s *ImageService) Create(ctx context.Context, params CreateImageParams) (*models.Image, error) {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	img, err := scanImage(s.db.Pool.QueryRow(ctx, `
		INSERT INTO images (tenant_id, public_id, url, folder, alt_text, tags, width, height, bytes, format)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+imageColumns,
		params.TenantID, params.PublicID, params.URL, params.Folder, params.AltText,
		tags, params.Width, params.Height, params.Bytes, params.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	return img, nil
}

// List returns one page of matching images plus the total match count. The
// page fetch and the count run concurrently.
func (s *ImageService) List(ctx context.Context, params ListImagesParams) (*ImageList, error) {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.TenantID != nil {
		conds = append(conds, "tenant_id = "+arg(*params.TenantID))
	}
	if params.Folder != "" {
		conds = append(conds, "folder = "+arg(params.Folder))
	}
	if len(params.Tags) > 0 {
		conds = append(conds, "tags @> "+arg(params.Tags))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	pageArgs := append(append([]any{}, args...), limit, (page-1)*limit)
	pageQuery := fmt.Sprintf(`
		SELECT `+imageColumns+` FROM images%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	countQuery := "SELECT COUNT(*) FROM images" + where

	result := &ImageList{Items: []models.Image{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.db.Pool.Query(gctx, pageQuery, pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			img, err := scanImage(rows)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, *img)
		}
		return rows.Err()
	})

	g.Go(func() error {
		return s.db.Pool.QueryRow(gctx, countQuery, args...).Scan(&result.Total)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update touches only alt text and tags; everything else is immutable after
// upload.
func (s *ImageService) Update(ctx context.Context, id uuid.UUID, params UpdateImageParams) (*models.Image, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.AltText != nil {
		sets = append(sets, "alt_text = "+arg(*params.AltText))
	}
	if params.Tags != nil {
		sets = append(sets, "tags = "+arg(params.Tags))
	}

	query := fmt.Sprintf(`
		UPDATE images SET %s WHERE id = %s
		RETURNING `+imageColumns, strings.Join(sets, ", "), arg(id))

	img, err := scanImage(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return img, err
}

func (s *ImageService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *ImageService) DeleteByPublicID(ctx context.Context, publicID string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM images WHERE public_id = $1`, publicID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Stats aggregates the image count and stored byte total for one tenant.
func (s *ImageService) Stats(ctx context.Context, tenantID uuid.UUID) (*ImageStats, error) {
	var stats ImageStats
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(bytes), 0) FROM images WHERE tenant_id = $1
	`, tenantID).Scan(&stats.Count, &stats.TotalBytes)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
