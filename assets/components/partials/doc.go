// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package partials holds components that are used by several pages but are
too large for fragments/.
*/
package partials
