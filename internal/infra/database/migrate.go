package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist yet. Every statement is
// guarded by IF NOT EXISTS / duplicate_object handling, so running it on
// every boot is safe. Enabled with MIGRATE_ON_BOOT.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT,
			restaurant TEXT NOT NULL,
			request_type TEXT NOT NULL DEFAULT 'demo'
				CHECK (request_type IN ('demo', 'info', 'affiliation', 'autre')),
			message TEXT,
			status TEXT NOT NULL DEFAULT 'new'
				CHECK (status IN ('new', 'contacted', 'qualified', 'converted', 'lost')),
			source TEXT,
			affiliate_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id BIGSERIAL PRIMARY KEY,
			nom TEXT NOT NULL,
			email TEXT NOT NULL,
			telephone TEXT NOT NULL,
			etablissement TEXT,
			type TEXT NOT NULL CHECK (type IN ('restaurateur', 'apporteur')),
			message TEXT,
			status TEXT NOT NULL DEFAULT 'nouveau',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`DO $$ BEGIN
			ALTER TABLE contacts ADD CONSTRAINT email_format
				CHECK (email ~* '^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$');
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,
		`DO $$ BEGIN
			ALTER TABLE contacts ADD CONSTRAINT phone_format
				CHECK (telephone ~ '^0[1-9][0-9]{8}$');
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status)`,

		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID PRIMARY KEY,
			role TEXT NOT NULL CHECK (role IN ('admin', 'affiliate')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
