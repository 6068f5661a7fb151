package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Schema statements are idempotent so Migrate can run on every startup.
//
// Correctness-relevant constraints live here, not only in application code:
//   - coupons.code UNIQUE: duplicate imports are rejected by the store.
//   - participants.coupon_id UNIQUE: no two participants can ever reference
//     the same coupon, whatever the application does.
//   - coupons CHECK: used and used_at are set or cleared together.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS coupons (
		id          BIGSERIAL PRIMARY KEY,
		code        TEXT        NOT NULL UNIQUE,
		type        TEXT        NOT NULL,
		name        TEXT        NOT NULL,
		used        BOOLEAN     NOT NULL DEFAULT FALSE,
		used_at     TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT coupons_used_at_consistent
			CHECK ((used AND used_at IS NOT NULL) OR (NOT used AND used_at IS NULL))
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id          BIGSERIAL PRIMARY KEY,
		email       TEXT        NOT NULL UNIQUE,
		first_name  TEXT        NOT NULL,
		last_name   TEXT        NOT NULL,
		newsletter  BOOLEAN     NOT NULL DEFAULT FALSE,
		coupon_id   BIGINT      UNIQUE REFERENCES coupons(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_coupons_unused_type
		ON coupons (type, id) WHERE NOT used`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Info().Msg("database schema up to date")
	return nil
}
