package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactFileNames(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 34, 56, 0, time.UTC)

	assert.Equal(t, "db-analysis-shopdb-2026-08-30T12-34-56Z.txt", GuideFileName("shopdb", ts))
	assert.Equal(t, "llmstxt-shopdb-2026-08-30T12-34-56Z.txt", DigestFileName("shopdb", ts))
}

func TestFileTimestamp_ReplacesSeparatorsInOffsets(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, loc)

	// Timestamps are normalized to UTC before formatting.
	assert.Equal(t, "2026-01-02T02-04-05Z", fileTimestamp(ts))
}

func TestExportService_WritesUnderOutputDir(t *testing.T) {
	dir := t.TempDir()
	svc := NewExportService(filepath.Join(dir, "reports"))
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	path, err := svc.WriteGuide("shopdb", "guide body\n", ts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "db-analysis-shopdb-2026-08-30T12-00-00Z.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "guide body\n", string(content))

	digestPath, err := svc.WriteDigest("shopdb", "digest body\n", ts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reports", "llmstxt-shopdb-2026-08-30T12-00-00Z.txt"), digestPath)
}
