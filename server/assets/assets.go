// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets
and gettext catalogs.
*/
package assets

import (
	"io/fs"
)

// FS is the file system holding "assets/css/" and "po/".
//
// main assigns the embedded copy at startup; tests may substitute their own.
var FS fs.FS
