package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER TABLE
// additions tolerate re-runs via the duplicate-column check.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                    TEXT PRIMARY KEY,
		name                  TEXT NOT NULL,
		role                  TEXT NOT NULL
		                      CHECK(role IN ('SUPER_ADMIN','PROGRAM_MANAGER','PRODUCT_MANAGER','VIEWER')),
		assigned_portfolio_id TEXT,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS portfolios (
		id               TEXT PRIMARY KEY,
		code             TEXT NOT NULL UNIQUE,
		name             TEXT NOT NULL,
		state            TEXT NOT NULL DEFAULT 'DRAFT'
		                 CHECK(state IN ('DRAFT','SUBMITTED','APPROVED','REJECTED','LOCKED','ARCHIVED')),
		locked           INTEGER NOT NULL DEFAULT 0,
		locked_by        TEXT NOT NULL DEFAULT '',
		locked_at        TEXT,
		priority         INTEGER NOT NULL DEFAULT 0,
		program_manager  TEXT NOT NULL DEFAULT '',
		estimated_budget TEXT NOT NULL DEFAULT '0',
		actual_cost      TEXT NOT NULL DEFAULT '0',
		rejection_reason TEXT NOT NULL DEFAULT '',
		submitted_at     TEXT,
		submitted_by     TEXT NOT NULL DEFAULT '',
		approved_at      TEXT,
		approved_by      TEXT NOT NULL DEFAULT '',
		rejected_at      TEXT,
		rejected_by      TEXT NOT NULL DEFAULT '',
		archived_at      TEXT,
		archived_by      TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id               TEXT PRIMARY KEY,
		portfolio_id     TEXT NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
		code             TEXT NOT NULL,
		name             TEXT NOT NULL,
		state            TEXT NOT NULL DEFAULT 'DRAFT'
		                 CHECK(state IN ('DRAFT','SUBMITTED','APPROVED','REJECTED','LOCKED','ARCHIVED')),
		locked           INTEGER NOT NULL DEFAULT 0,
		locked_by        TEXT NOT NULL DEFAULT '',
		locked_at        TEXT,
		estimated_cost   TEXT NOT NULL DEFAULT '0',
		actual_cost      TEXT NOT NULL DEFAULT '0',
		rejection_reason TEXT NOT NULL DEFAULT '',
		submitted_at     TEXT,
		submitted_by     TEXT NOT NULL DEFAULT '',
		approved_at      TEXT,
		approved_by      TEXT NOT NULL DEFAULT '',
		rejected_at      TEXT,
		rejected_by      TEXT NOT NULL DEFAULT '',
		archived_at      TEXT,
		archived_by      TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_portfolio ON products(portfolio_id)`,

	`CREATE TABLE IF NOT EXISTS releases (
		id                  TEXT PRIMARY KEY,
		product_id          TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name                TEXT NOT NULL,
		state               TEXT NOT NULL DEFAULT 'DRAFT'
		                    CHECK(state IN ('DRAFT','SUBMITTED','APPROVED','REJECTED','LOCKED','ARCHIVED')),
		locked              INTEGER NOT NULL DEFAULT 0,
		locked_by           TEXT NOT NULL DEFAULT '',
		locked_at           TEXT,
		gonogo_submitted    INTEGER NOT NULL DEFAULT 0,
		gonogo_submitted_at TEXT,
		gonogo_submitted_by TEXT NOT NULL DEFAULT '',
		gonogo_decision     TEXT CHECK(gonogo_decision IN ('GO','NO_GO')),
		gonogo_decided_at   TEXT,
		gonogo_decided_by   TEXT NOT NULL DEFAULT '',
		actual_cost         TEXT NOT NULL DEFAULT '0',
		rejection_reason    TEXT NOT NULL DEFAULT '',
		submitted_at        TEXT,
		submitted_by        TEXT NOT NULL DEFAULT '',
		approved_at         TEXT,
		approved_by         TEXT NOT NULL DEFAULT '',
		rejected_at         TEXT,
		rejected_by         TEXT NOT NULL DEFAULT '',
		archived_at         TEXT,
		archived_by         TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_releases_product ON releases(product_id)`,

	`CREATE TABLE IF NOT EXISTS release_checklist (
		id         TEXT PRIMARY KEY,
		release_id TEXT NOT NULL REFERENCES releases(id) ON DELETE CASCADE,
		item       TEXT NOT NULL,
		completed  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS features (
		id          TEXT PRIMARY KEY,
		product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		release_id  TEXT REFERENCES releases(id) ON DELETE SET NULL,
		name        TEXT NOT NULL,
		state       TEXT NOT NULL DEFAULT 'DISCOVERY'
		            CHECK(state IN ('DISCOVERY','READY','IN_PROGRESS','RELEASED','ARCHIVED')),
		actual_cost TEXT NOT NULL DEFAULT '0',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_features_product ON features(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_features_release ON features(release_id)`,

	`CREATE TABLE IF NOT EXISTS cost_entries (
		id          TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL
		            CHECK(entity_type IN ('PORTFOLIO','PRODUCT','FEATURE','RELEASE')),
		entity_id   TEXT NOT NULL,
		amount      TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		currency    TEXT NOT NULL,
		entry_date  TEXT NOT NULL,
		recorded_by TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cost_entries_entity ON cost_entries(entity_type, entity_id)`,

	`CREATE TABLE IF NOT EXISTS rate_cards (
		id             TEXT PRIMARY KEY,
		team_type_id   TEXT NOT NULL,
		grade_role_id  TEXT NOT NULL,
		monthly_cost   TEXT NOT NULL DEFAULT '0',
		daily_cost     TEXT NOT NULL DEFAULT '0',
		hourly_cost    TEXT NOT NULL DEFAULT '0',
		currency       TEXT NOT NULL,
		effective_from TEXT NOT NULL,
		effective_to   TEXT,
		active         INTEGER NOT NULL DEFAULT 1,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rate_cards_pair ON rate_cards(team_type_id, grade_role_id, effective_from)`,

	`CREATE TABLE IF NOT EXISTS resource_allocations (
		id            TEXT PRIMARY KEY,
		portfolio_id  TEXT NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
		phase         TEXT NOT NULL DEFAULT '',
		team_type_id  TEXT NOT NULL,
		grade_role_id TEXT NOT NULL,
		feature_id    TEXT REFERENCES features(id) ON DELETE SET NULL,
		quarter       TEXT NOT NULL DEFAULT '',
		hourly_rate   TEXT NOT NULL,
		actual_hours  REAL NOT NULL DEFAULT 0,
		utilization   REAL NOT NULL DEFAULT 1,
		actual_cost   TEXT NOT NULL DEFAULT '0',
		duration_days REAL NOT NULL DEFAULT 0,
		created_by    TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_portfolio ON resource_allocations(portfolio_id)`,

	`CREATE TABLE IF NOT EXISTS product_assignments (
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS system_freeze (
		id     TEXT PRIMARY KEY CHECK(id = 'singleton'),
		frozen INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT '',
		set_by TEXT NOT NULL DEFAULT '',
		set_at TEXT
	)`,
	`INSERT OR IGNORE INTO system_freeze (id, frozen) VALUES ('singleton', 0)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id          TEXT PRIMARY KEY,
		actor       TEXT NOT NULL,
		action      TEXT NOT NULL,
		entity_type TEXT NOT NULL DEFAULT '',
		entity_id   TEXT NOT NULL DEFAULT '',
		detail      TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id)`,
}
