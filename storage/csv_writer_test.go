package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expired-listings/models"
	"expired-listings/services"
)

func TestCSVWriterCreatesDirsAndReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", services.ExportFileName)

	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	rows := services.NewFormatter(nil).PrepareDisplay([]*models.Listing{sampleListing("R1"), sampleListing("R2")})
	require.NoError(t, w.WriteRows(rows))
	require.NoError(t, w.WriteRows(rows[:1]))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Address,Property Type"))
	assert.True(t, strings.HasSuffix(lines[1], ",R1"))
}
