package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(100) NOT NULL UNIQUE,
		domains TEXT[] NOT NULL DEFAULT '{}',
		primary_domain VARCHAR(255) NOT NULL,
		logo_url VARCHAR(500) NOT NULL DEFAULT '',
		brand_color VARCHAR(20) NOT NULL DEFAULT '#d4af37',
		contact_email VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		allowed_admin_emails TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tenants_domains ON tenants USING gin (domains)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		google_id VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		picture VARCHAR(500) NOT NULL DEFAULT '',
		role VARCHAR(50) NOT NULL DEFAULT 'admin',
		tenant_id UUID REFERENCES tenants(id) ON DELETE SET NULL,
		external_claims JSONB,
		last_login_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_tenant_id ON users(tenant_id)`,

	`CREATE TABLE IF NOT EXISTS images (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tenant_id UUID REFERENCES tenants(id) ON DELETE CASCADE,
		public_id VARCHAR(255) NOT NULL UNIQUE,
		url VARCHAR(1000) NOT NULL,
		folder VARCHAR(20) NOT NULL CHECK (folder IN ('projects', 'blog', 'general', 'gallery')),
		alt_text TEXT NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		width INTEGER,
		height INTEGER,
		bytes BIGINT,
		format VARCHAR(20),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_images_tenant_id ON images(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_images_folder ON images(folder)`,
	`CREATE INDEX IF NOT EXISTS idx_images_tenant_folder ON images(tenant_id, folder)`,
	`CREATE INDEX IF NOT EXISTS idx_images_tags ON images USING gin (tags)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
