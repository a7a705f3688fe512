// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"crypto/sha1" // #nosec G505 -- content checksum, not a security boundary
	"database/sql"
	"encoding/hex"
	"fmt"
)

type Project struct {
	ID   int64
	Slug string
	Name string
}

// Subproject is a translatable component of a project.
type Subproject struct {
	ID        int64
	ProjectID int64
	Slug      string
	Name      string

	Project Project
}

// String returns "project/subproject" using display names.
func (s Subproject) String() string {
	return s.Project.Name + "/" + s.Name
}

type Language struct {
	ID   int64
	Code string
	Name string
}

// Translation is a subproject in one language.
type Translation struct {
	ID           int64
	SubprojectID int64
	LanguageID   int64
}

// Unit is a single string of a translation.
type Unit struct {
	ID            int64
	TranslationID int64
	Contentsum    string
	Source        string
	Target        string
	Translated    bool

	// Language is filled by UnitByID.
	Language Language
}

// Check is a stored quality check failure. A zero LanguageID marks a
// check on the source string.
type Check struct {
	ID         int64
	ProjectID  int64
	LanguageID int64
	Contentsum string
	Name       string
	Ignored    bool
}

// Contentsum identifies a source string and its context across languages.
func Contentsum(source, context string) string {
	sum := sha1.Sum([]byte(source + context)) // #nosec G401

	return hex.EncodeToString(sum[:])
}

// ProjectBySlug returns ErrNotFound for an unknown slug.
func (s *Store) ProjectBySlug(ctx context.Context, slug string) (Project, error) {
	var p Project

	err := s.queryRow(ctx, "ProjectBySlug",
		`SELECT id, slug, name FROM projects WHERE slug = ?`,
		[]any{slug}, &p.ID, &p.Slug, &p.Name)

	return p, err
}

// SubprojectBySlug looks up a subproject within a project, with the project filled in.
func (s *Store) SubprojectBySlug(ctx context.Context, projectSlug, slug string) (Subproject, error) {
	var sp Subproject

	err := s.queryRow(ctx, "SubprojectBySlug",
		`SELECT s.id, s.project_id, s.slug, s.name, p.id, p.slug, p.name
		FROM subprojects s
		JOIN projects p ON p.id = s.project_id
		WHERE p.slug = ? AND s.slug = ?`,
		[]any{projectSlug, slug},
		&sp.ID, &sp.ProjectID, &sp.Slug, &sp.Name,
		&sp.Project.ID, &sp.Project.Slug, &sp.Project.Name)

	return sp, err
}

// UnitByID returns a unit together with the language of its translation.
func (s *Store) UnitByID(ctx context.Context, id int64) (Unit, error) {
	var u Unit

	err := s.queryRow(ctx, "UnitByID",
		`SELECT u.id, u.translation_id, u.contentsum, u.source, u.target, u.translated,
			l.id, l.code, l.name
		FROM units u
		JOIN translations t ON t.id = u.translation_id
		JOIN languages l ON l.id = t.language_id
		WHERE u.id = ?`,
		[]any{id},
		&u.ID, &u.TranslationID, &u.Contentsum, &u.Source, &u.Target, &u.Translated,
		&u.Language.ID, &u.Language.Code, &u.Language.Name)

	return u, err
}

// Projects lists all projects ordered by slug.
func (s *Store) Projects(ctx context.Context) (projects []Project, err error) {
	ctx, sp := span(ctx, "Projects")
	defer func() { finish(sp, err) }()

	rows, err := s.db.QueryContext(ctx, `SELECT id, slug, name FROM projects ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("Projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name); err != nil {
			return nil, fmt.Errorf("Projects: %w", err)
		}

		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (s *Store) insert(ctx context.Context, name, query string, args ...any) (int64, error) {
	var id int64

	if err := s.queryRow(ctx, name, query+` RETURNING id`, args, &id); err != nil {
		return 0, err
	}

	return id, nil
}

func (s *Store) CreateProject(ctx context.Context, slug, name string) (Project, error) {
	id, err := s.insert(ctx, "CreateProject",
		`INSERT INTO projects (slug, name) VALUES (?, ?)`, slug, name)

	return Project{ID: id, Slug: slug, Name: name}, err
}

func (s *Store) CreateSubproject(ctx context.Context, project Project, slug, name string) (Subproject, error) {
	id, err := s.insert(ctx, "CreateSubproject",
		`INSERT INTO subprojects (project_id, slug, name) VALUES (?, ?, ?)`, project.ID, slug, name)

	return Subproject{ID: id, ProjectID: project.ID, Slug: slug, Name: name, Project: project}, err
}

func (s *Store) CreateLanguage(ctx context.Context, code, name string) (Language, error) {
	id, err := s.insert(ctx, "CreateLanguage",
		`INSERT INTO languages (code, name) VALUES (?, ?)`, code, name)

	return Language{ID: id, Code: code, Name: name}, err
}

// LanguageByCode returns ErrNotFound for an unknown code.
func (s *Store) LanguageByCode(ctx context.Context, code string) (Language, error) {
	var l Language

	err := s.queryRow(ctx, "LanguageByCode",
		`SELECT id, code, name FROM languages WHERE code = ?`,
		[]any{code}, &l.ID, &l.Code, &l.Name)

	return l, err
}

func (s *Store) CreateTranslation(ctx context.Context, subprojectID, languageID int64) (Translation, error) {
	id, err := s.insert(ctx, "CreateTranslation",
		`INSERT INTO translations (subproject_id, language_id) VALUES (?, ?)`, subprojectID, languageID)

	return Translation{ID: id, SubprojectID: subprojectID, LanguageID: languageID}, err
}

// CreateUnit stores u and returns it with its ID set.
func (s *Store) CreateUnit(ctx context.Context, u Unit) (Unit, error) {
	var err error

	u.ID, err = s.insert(ctx, "CreateUnit",
		`INSERT INTO units (translation_id, contentsum, source, target, translated) VALUES (?, ?, ?, ?, ?)`,
		u.TranslationID, u.Contentsum, u.Source, u.Target, u.Translated)

	return u, err
}

// CreateCheck stores c and returns it with its ID set.
func (s *Store) CreateCheck(ctx context.Context, c Check) (Check, error) {
	language := sql.NullInt64{Int64: c.LanguageID, Valid: c.LanguageID != 0}

	var err error

	c.ID, err = s.insert(ctx, "CreateCheck",
		`INSERT INTO checks (project_id, language_id, contentsum, name, ignored) VALUES (?, ?, ?, ?, ?)`,
		c.ProjectID, language, c.Contentsum, c.Name, c.Ignored)

	return c, err
}
