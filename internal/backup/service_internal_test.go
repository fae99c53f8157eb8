package backup

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCreateDumpFileSameSecond(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

	var names []string
	for i := 0; i < 3; i++ {
		f, err := createDumpFile(dir, now)
		if err != nil {
			t.Fatalf("createDumpFile: %v", err)
		}
		f.Close()
		names = append(names, filepath.Base(f.Name()))
	}

	want := []string{
		"2024-03-01_12.30.45_reviewdump.sql.gz",
		"2024-03-01_12.30.45_2_reviewdump.sql.gz",
		"2024-03-01_12.30.45_3_reviewdump.sql.gz",
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}
