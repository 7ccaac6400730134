package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(FS(), ".")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{
		"00001_create_emission_factors.sql",
		"00002_create_assessments.sql",
		"00003_create_assessment_materials.sql",
	}, names)

	for _, name := range names {
		data, err := fs.ReadFile(FS(), name)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), "-- +goose Up"), name)
		assert.True(t, strings.Contains(string(data), "-- +goose Down"), name)
	}
}

func TestAssessmentMaterialsHaveNoCascade(t *testing.T) {
	data, err := fs.ReadFile(FS(), "00003_create_assessment_materials.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "REFERENCES assessments (id)")
	assert.NotContains(t, string(data), "CASCADE")
}
