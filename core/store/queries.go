// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"fmt"
)

// Count is one row of a grouped report query.
type Count struct {
	Key   string
	Count int
}

// queryCounts runs a query returning (key, count) rows.
func (s *Store) queryCounts(ctx context.Context, name, query string, args ...any) (counts []Count, err error) {
	ctx, sp := span(ctx, name)
	defer func() { finish(sp, err) }()

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return counts, nil
}

// CheckCounts counts checks grouped by check name. An empty projectSlug
// counts checks of all projects.
func (s *Store) CheckCounts(ctx context.Context, ignored bool, projectSlug string) ([]Count, error) {
	if projectSlug == "" {
		return s.queryCounts(ctx, "CheckCounts",
			`SELECT c.name, COUNT(c.id)
			FROM checks c
			WHERE c.ignored = ?
			GROUP BY c.name
			ORDER BY c.name`,
			ignored)
	}

	return s.queryCounts(ctx, "CheckCounts",
		`SELECT c.name, COUNT(c.id)
		FROM checks c
		JOIN projects p ON p.id = c.project_id
		WHERE c.ignored = ? AND p.slug = ?
		GROUP BY c.name
		ORDER BY c.name`,
		ignored, projectSlug)
}

// ProjectCounts counts checks of one name grouped by project slug.
func (s *Store) ProjectCounts(ctx context.Context, name string, ignored bool, projectSlug string) ([]Count, error) {
	if projectSlug == "" {
		return s.queryCounts(ctx, "ProjectCounts",
			`SELECT p.slug, COUNT(c.id)
			FROM checks c
			JOIN projects p ON p.id = c.project_id
			WHERE c.name = ? AND c.ignored = ?
			GROUP BY p.slug
			ORDER BY p.slug`,
			name, ignored)
	}

	return s.queryCounts(ctx, "ProjectCounts",
		`SELECT p.slug, COUNT(c.id)
		FROM checks c
		JOIN projects p ON p.id = c.project_id
		WHERE c.name = ? AND c.ignored = ? AND p.slug = ?
		GROUP BY p.slug
		ORDER BY p.slug`,
		name, ignored, projectSlug)
}

// firstTranslation selects the translation whose language name sorts first
// for the subproject aliased as s.
const firstTranslation = `(SELECT t2.id
	FROM translations t2
	JOIN languages l2 ON l2.id = t2.language_id
	WHERE t2.subproject_id = s.id
	ORDER BY l2.name, t2.id
	LIMIT 1)`

// TargetCountsBySubproject counts translated units of the project flagged
// by a check on their language, grouped by subproject slug.
func (s *Store) TargetCountsBySubproject(ctx context.Context, projectID int64, name string, ignored bool) ([]Count, error) {
	return s.queryCounts(ctx, "TargetCountsBySubproject",
		`SELECT s.slug, COUNT(u.id)
		FROM units u
		JOIN translations t ON t.id = u.translation_id
		JOIN subprojects s ON s.id = t.subproject_id
		WHERE s.project_id = ? AND u.translated = ?
			AND EXISTS (
				SELECT 1 FROM checks c
				WHERE c.project_id = s.project_id
					AND c.name = ?
					AND c.ignored = ?
					AND c.language_id = t.language_id
					AND c.contentsum = u.contentsum
			)
		GROUP BY s.slug
		ORDER BY s.slug`,
		projectID, true, name, ignored)
}

// SourceCountsBySubproject counts units in the first translation of every
// subproject that are flagged by a source check, grouped by subproject slug.
func (s *Store) SourceCountsBySubproject(ctx context.Context, projectID int64, name string, ignored bool) ([]Count, error) {
	return s.queryCounts(ctx, "SourceCountsBySubproject",
		`SELECT s.slug, COUNT(u.id)
		FROM subprojects s
		JOIN units u ON u.translation_id = `+firstTranslation+`
		WHERE s.project_id = ?
			AND EXISTS (
				SELECT 1 FROM checks c
				WHERE c.project_id = s.project_id
					AND c.name = ?
					AND c.ignored = ?
					AND c.language_id IS NULL
					AND c.contentsum = u.contentsum
			)
		GROUP BY s.slug
		ORDER BY s.slug`,
		projectID, name, ignored)
}

// TargetCountsByLanguage counts translated units of the subproject flagged
// by a check on their language, grouped by language code.
func (s *Store) TargetCountsByLanguage(ctx context.Context, sub Subproject, name string, ignored bool) ([]Count, error) {
	return s.queryCounts(ctx, "TargetCountsByLanguage",
		`SELECT l.code, COUNT(u.id)
		FROM units u
		JOIN translations t ON t.id = u.translation_id
		JOIN languages l ON l.id = t.language_id
		WHERE t.subproject_id = ? AND u.translated = ?
			AND EXISTS (
				SELECT 1 FROM checks c
				WHERE c.project_id = ?
					AND c.name = ?
					AND c.ignored = ?
					AND c.language_id = t.language_id
					AND c.contentsum = u.contentsum
			)
		GROUP BY l.code
		ORDER BY l.code`,
		sub.ID, true, sub.ProjectID, name, ignored)
}

// SourceCount counts units in the first translation of the subproject
// flagged by a source check. It is zero for a subproject without translations.
func (s *Store) SourceCount(ctx context.Context, sub Subproject, name string, ignored bool) (int, error) {
	counts, err := s.queryCounts(ctx, "SourceCount",
		`SELECT l.code, COUNT(u.id)
		FROM subprojects s
		JOIN translations t ON t.id = `+firstTranslation+`
		JOIN languages l ON l.id = t.language_id
		JOIN units u ON u.translation_id = t.id
		WHERE s.id = ?
			AND EXISTS (
				SELECT 1 FROM checks c
				WHERE c.project_id = s.project_id
					AND c.name = ?
					AND c.ignored = ?
					AND c.language_id IS NULL
					AND c.contentsum = u.contentsum
			)
		GROUP BY l.code`,
		sub.ID, name, ignored)
	if err != nil || len(counts) == 0 {
		return 0, err
	}

	return counts[0].Count, nil
}
