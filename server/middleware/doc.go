// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware of Checkboard and
CatchError, which adapts handlers returning an error.

Routes are defined in server/router.
*/
package middleware
