package database

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	role TEXT NOT NULL,
	approval_status TEXT NOT NULL,
	registration_ip TEXT NOT NULL DEFAULT '',
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS hospitals (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users(id),
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	phone TEXT NOT NULL,
	business_number TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS licenses (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users(id),
	file_name TEXT NOT NULL,
	stored_file_name TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	content_type TEXT NOT NULL,
	approval_status TEXT NOT NULL,
	rejection_reason TEXT NOT NULL DEFAULT '',
	approved_by UUID,
	approved_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS agreements (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	agreement_type TEXT NOT NULL,
	agreed BOOLEAN NOT NULL,
	agreed_ip TEXT NOT NULL DEFAULT '',
	policy_version TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	order_number TEXT NOT NULL UNIQUE,
	total_amount NUMERIC(12,2) NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id),
	payment_number TEXT NOT NULL UNIQUE,
	amount NUMERIC(12,2) NOT NULL,
	payment_method TEXT NOT NULL DEFAULT '',
	gateway_key TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id UUID PRIMARY KEY,
	user_id UUID,
	target_user_id UUID,
	action_type TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id UUID,
	description TEXT NOT NULL DEFAULT '',
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
