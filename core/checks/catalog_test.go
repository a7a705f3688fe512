// Copyright 2025, the Checkboard contributors
// SPDX-License-Identifier: AGPL-3.0-only

package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id     string
		target bool
		source bool
	}{
		{"end_stop", true, false},
		{"zero-width-space", true, false},
		{"optional_plural", false, true},
		{"multiple_failures", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			c, ok := Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.id, c.ID)
			assert.Equal(t, tt.target, c.Target)
			assert.Equal(t, tt.source, c.Source)
			assert.NotEmpty(t, c.Name)
		})
	}

	_, ok := Lookup("nonexistent")
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	t.Parallel()

	all := All()
	require.Len(t, all, len(catalog))

	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	for _, c := range all {
		assert.True(t, c.Target || c.Source, c.ID)
	}
}
