package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportService writes report artifacts under the configured output
// directory. Naming is the only thing with a contract here: existing tooling
// globs for the db-analysis-* and llmstxt-* prefixes.
type ExportService struct {
	outputDir string
}

func NewExportService(outputDir string) *ExportService {
	return &ExportService{outputDir: outputDir}
}

func (s *ExportService) WriteGuide(dbName, text string, now time.Time) (string, error) {
	return s.write(GuideFileName(dbName, now), text)
}

func (s *ExportService) WriteDigest(dbName, text string, now time.Time) (string, error) {
	return s.write(DigestFileName(dbName, now), text)
}

func (s *ExportService) write(name, text string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}

func GuideFileName(dbName string, now time.Time) string {
	return fmt.Sprintf("db-analysis-%s-%s.txt", dbName, fileTimestamp(now))
}

func DigestFileName(dbName string, now time.Time) string {
	return fmt.Sprintf("llmstxt-%s-%s.txt", dbName, fileTimestamp(now))
}

// fileTimestamp renders an ISO 8601 timestamp with the characters that are
// unsafe in file names replaced by hyphens.
func fileTimestamp(now time.Time) string {
	ts := now.UTC().Format(time.RFC3339)
	return strings.NewReplacer(":", "-", ".", "-").Replace(ts)
}
