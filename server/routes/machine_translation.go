// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"codeberg.org/checkboard/checkboard/core/machine"
	"codeberg.org/checkboard/checkboard/core/requests"
	"codeberg.org/checkboard/checkboard/core/store"
	"codeberg.org/checkboard/checkboard/server/utils"
)

var (
	errInvalidUnitID  = errors.New("invalid unit id")
	errUnknownService = errors.New("unknown machine translation service")
)

// mtResponse is the JSON body of MachineTranslation. Failures of the
// service are reported in the body with responseStatus 500.
type mtResponse struct {
	ResponseStatus  int                  `json:"responseStatus"`
	ResponseDetails string               `json:"responseDetails,omitempty"`
	Service         string               `json:"service,omitempty"`
	Translations    []machine.Suggestion `json:"translations,omitempty"`
}

// MachineTranslation returns suggestions for the source string of a unit
// in the language of its translation.
//
// The service is picked with ?service=, defaulting to the first enabled one.
func MachineTranslation(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(utils.GetPathVar(r, "unit_id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)

		return fmt.Errorf("%w: %w", errInvalidUnitID, err)
	}

	unit, err := store.Default.UnitByID(r.Context(), id)
	if err != nil {
		return notFound(w, err)
	}

	name := utils.GetQueryParam(r, "service")
	if name == "" {
		if keys := machine.DefaultRegistry.Keys(); len(keys) > 0 {
			name = keys[0]
		}
	}

	svc, ok := machine.DefaultRegistry.Get(name)
	if !ok {
		return writeJSON(w, http.StatusBadRequest, mtResponse{
			ResponseStatus:  http.StatusBadRequest,
			ResponseDetails: fmt.Sprintf("%v: %q", errUnknownService, name),
		})
	}

	ctx := requests.WithIncomingHeaders(r.Context(), r.Header)

	suggestions, err := machine.Translate(ctx, svc, unit.Language.Code, unit.Source)
	if err != nil {
		if requests.IsContextCanceled(err) {
			return err
		}

		return writeJSON(w, http.StatusOK, mtResponse{
			ResponseStatus:  http.StatusInternalServerError,
			ResponseDetails: err.Error(),
		})
	}

	w.Header().Set("Cache-Control", "no-store")

	return writeJSON(w, http.StatusOK, mtResponse{
		ResponseStatus: http.StatusOK,
		Service:        svc.Name(),
		Translations:   suggestions,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}
