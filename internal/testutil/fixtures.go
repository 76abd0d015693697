package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempFiles creates a temporary directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// SampleFile writes a small cfDNA fragment table and returns its path.
func SampleFile(t *testing.T) string {
	t.Helper()
	dir := TempFiles(t, map[string]string{
		"sample.tsv": "chrom\tstart\tend\tcount\nchr1\t10000\t10150\t3\n",
	})
	return filepath.Join(dir, "sample.tsv")
}

// PendingJob is a single pending job with a string id.
func PendingJob() FakeJob {
	return FakeJob{ID: "j1", Status: "pending", CreatedAt: "2024-01-01T00:00:00Z"}
}

// MixedJobs returns one job in each known status plus an unknown one,
// using the backend's integer ids and naive timestamps.
func MixedJobs() []FakeJob {
	return []FakeJob{
		{ID: 3, Status: "complete", CreatedAt: "2024-03-02T10:15:00.123456"},
		{ID: 2, Status: "pending", CreatedAt: "2024-03-01T09:00:00"},
		{ID: 1, Status: "failed", CreatedAt: "2024-02-28T18:30:00+00:00"},
		{ID: 4, Status: "queued", CreatedAt: "2024-03-03T08:00:00Z"},
	}
}
