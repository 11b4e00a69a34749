package migration

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
)

// Statement é um passo idempotente do schema
type Statement struct {
	Name string
	SQL  string
}

// Schema cria as tabelas usadas pelo serving. Requer PostgreSQL 15+ (NULLS NOT DISTINCT).
var Schema = []Statement{
	{
		Name: "offers",
		SQL: `CREATE TABLE IF NOT EXISTS offers (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	project_id UUID NOT NULL,
	name       TEXT NOT NULL,
	category   TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Name: "api_keys",
		SQL: `CREATE TABLE IF NOT EXISTS api_keys (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	project_id   UUID NOT NULL,
	name         TEXT NOT NULL,
	key_prefix   TEXT NOT NULL,
	key_hash     TEXT NOT NULL UNIQUE,
	scopes       TEXT[] NOT NULL DEFAULT ARRAY['serve'],
	expires_at   TIMESTAMPTZ,
	is_active    BOOLEAN NOT NULL DEFAULT true,
	last_used_at TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Name: "creatives",
		SQL: `CREATE TABLE IF NOT EXISTS creatives (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	project_id UUID NOT NULL,
	offer_id   UUID REFERENCES offers (id) ON DELETE SET NULL,
	name       TEXT NOT NULL,
	click_url  TEXT NOT NULL,
	image_url  TEXT,
	alt_text   TEXT,
	width      INT,
	height     INT,
	size       TEXT GENERATED ALWAYS AS (width::text || 'x' || height::text) STORED,
	format     TEXT NOT NULL DEFAULT 'banner' CHECK (format IN ('banner', 'text', 'native')),
	is_active  BOOLEAN NOT NULL DEFAULT true,
	start_date DATE,
	end_date   DATE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Name: "placements",
		SQL: `CREATE TABLE IF NOT EXISTS placements (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	project_id           UUID NOT NULL,
	name                 TEXT NOT NULL,
	slug                 TEXT NOT NULL,
	is_active            BOOLEAN NOT NULL DEFAULT true,
	fallback_type        TEXT CHECK (fallback_type IN ('none', 'creative', 'url')),
	fallback_creative_id UUID REFERENCES creatives (id) ON DELETE SET NULL,
	fallback_url         TEXT,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (project_id, slug)
)`,
	},
	{
		Name: "targeting_rules",
		SQL: `CREATE TABLE IF NOT EXISTS targeting_rules (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	project_id   UUID NOT NULL,
	placement_id UUID NOT NULL REFERENCES placements (id) ON DELETE CASCADE,
	creative_id  UUID NOT NULL REFERENCES creatives (id) ON DELETE CASCADE,
	countries    TEXT[] NOT NULL DEFAULT '{}',
	categories   TEXT[] NOT NULL DEFAULT '{}',
	priority     INT NOT NULL DEFAULT 0,
	weight       INT NOT NULL DEFAULT 100 CHECK (weight > 0),
	is_active    BOOLEAN NOT NULL DEFAULT true,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Name: "targeting_rules_placement_idx",
		SQL:  `CREATE INDEX IF NOT EXISTS targeting_rules_placement_idx ON targeting_rules (project_id, placement_id) WHERE is_active`,
	},
	{
		Name: "impressions",
		SQL: `CREATE TABLE IF NOT EXISTS impressions (
	id           UUID PRIMARY KEY,
	project_id   UUID NOT NULL,
	placement_id UUID,
	creative_id  UUID,
	rule_id      UUID,
	country      CHAR(2),
	was_fallback BOOLEAN NOT NULL DEFAULT false,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Name: "impressions_created_at_idx",
		SQL:  `CREATE INDEX IF NOT EXISTS impressions_created_at_idx ON impressions (created_at)`,
	},
	{
		Name: "clicks",
		SQL: `CREATE TABLE IF NOT EXISTS clicks (
	id            UUID PRIMARY KEY,
	impression_id UUID,
	project_id    UUID NOT NULL,
	creative_id   UUID,
	country       CHAR(2),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	},
	{
		Name: "clicks_impression_idx",
		SQL:  `CREATE INDEX IF NOT EXISTS clicks_impression_idx ON clicks (impression_id)`,
	},
	{
		Name: "daily_stats",
		SQL: `CREATE TABLE IF NOT EXISTS daily_stats (
	date         DATE NOT NULL,
	project_id   UUID NOT NULL,
	placement_id UUID,
	creative_id  UUID,
	country      CHAR(2),
	impressions  BIGINT NOT NULL DEFAULT 0,
	clicks       BIGINT NOT NULL DEFAULT 0,
	UNIQUE NULLS NOT DISTINCT (date, project_id, placement_id, creative_id, country)
)`,
	},
}

// Apply executa o schema inteiro em uma única transação
func Apply(ctx context.Context, conn postgres.Conn, statements []Statement) error {
	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range statements {
			logrus.WithField("step", stmt.Name).Debug("Aplicando migração")

			if _, err := tx.ExecContext(ctx, stmt.SQL); err != nil {
				return errors.Wrapf(err, "failed to apply %s", stmt.Name)
			}
		}
		return nil
	})
}
