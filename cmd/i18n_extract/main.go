// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_extract collects translatable strings into a gettext template.

Strings are found through the type checker: calls of i18n.Tr, TrC and TrN,
and constant strings converted to i18n.MsgKey, explicitly or implicitly
through struct fields, map and slice literals, or function parameters.

Usage:

	go run ./cmd/i18n_extract -o po/checkboard.pot
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/checkboard/checkboard/core/audit"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

func main() {
	outPath := flag.String("o", "po/checkboard.pot", "output file")
	flag.Parse()

	audit.SetDefaultLogger()

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	pkgs, err := load(patterns...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	messages := collect(pkgs, projectRoot(wd))

	var b strings.Builder
	writeTemplate(&b, messages, gitVersion(), time.Now().UTC())

	if err := os.MkdirAll(filepath.Dir(*outPath), dirPerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	if err := os.WriteFile(*outPath, []byte(b.String()), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to write template")
	}

	log.Info().
		Int("messages", len(messages)).
		Str("path", *outPath).
		Msg("Wrote gettext template")
}

// load type-checks the packages matched by patterns.
func load(patterns ...string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax}, patterns...)
	if err != nil {
		return nil, err
	}

	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("packages contain errors")
	}

	return pkgs, nil
}

// gitVersion describes the checkout, or returns "dev" outside of git.
func gitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// projectRoot is the git toplevel, else the nearest directory holding
// go.mod, else wd. Source references are written relative to it.
func projectRoot(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	if out, err := cmd.Output(); err == nil {
		if root := strings.TrimSpace(string(out)); root != "" {
			return filepath.Clean(root)
		}
	}

	for dir := filepath.Clean(wd); ; dir = filepath.Dir(dir) {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		if filepath.Dir(dir) == dir {
			return wd
		}
	}
}
