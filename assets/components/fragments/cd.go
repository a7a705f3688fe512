// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package fragments holds small building blocks shared by the views.
package fragments

import (
	"context"

	"codeberg.org/checkboard/checkboard/server/request_context"
	"codeberg.org/checkboard/checkboard/server/template/commondata"
	"codeberg.org/checkboard/checkboard/server/utils"
)

func CommonData(ctx context.Context) commondata.PageCommonData {
	return request_context.FromContext(ctx).CommonData
}

// ToggleIgnoredURL links the current page with the "ignored" filter flipped.
func ToggleIgnoredURL(ctx context.Context) string {
	cd := CommonData(ctx)

	params := map[string]string{}

	for k, v := range cd.Queries {
		if k != "ignored" {
			params[k] = v
		}
	}

	if !cd.Ignored {
		params["ignored"] = "true"
	}

	return cd.CurrentPath + utils.EncodeOptional(params)
}
