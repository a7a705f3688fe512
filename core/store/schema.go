// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/checkboard/checkboard/config"
)

// schema is shared by both drivers; {{id}} expands to the auto-increment
// primary key type of the dialect.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id {{id}},
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subprojects (
		id {{id}},
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		slug TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE (project_id, slug)
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		id {{id}},
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS translations (
		id {{id}},
		subproject_id BIGINT NOT NULL REFERENCES subprojects(id) ON DELETE CASCADE,
		language_id BIGINT NOT NULL REFERENCES languages(id) ON DELETE CASCADE,
		UNIQUE (subproject_id, language_id)
	)`,
	`CREATE TABLE IF NOT EXISTS units (
		id {{id}},
		translation_id BIGINT NOT NULL REFERENCES translations(id) ON DELETE CASCADE,
		contentsum TEXT NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		translated BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS units_translation_contentsum ON units (translation_id, contentsum)`,
	`CREATE TABLE IF NOT EXISTS checks (
		id {{id}},
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		language_id BIGINT REFERENCES languages(id) ON DELETE CASCADE,
		contentsum TEXT NOT NULL,
		name TEXT NOT NULL,
		ignored BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS checks_project_name ON checks (project_id, name, ignored)`,
	`CREATE INDEX IF NOT EXISTS checks_contentsum ON checks (contentsum)`,
}

func (s *Store) migrate(ctx context.Context) error {
	idType := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == config.DriverPostgres {
		idType = "BIGSERIAL PRIMARY KEY"
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, strings.ReplaceAll(stmt, "{{id}}", idType)); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}
