package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvironmentReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TODOS_TEST_VALUE=from-file\nTODOS_TEST_KEEP=from-file\n"), 0600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)

	t.Setenv("TODOS_TEST_VALUE", "")
	os.Unsetenv("TODOS_TEST_VALUE")
	t.Setenv("TODOS_TEST_KEEP", "from-env")

	loaded := LoadEnvironment()
	if len(loaded) == 0 || loaded[0] != ".env" {
		t.Fatalf("loaded = %v, want .env first", loaded)
	}
	if got := os.Getenv("TODOS_TEST_VALUE"); got != "from-file" {
		t.Errorf("TODOS_TEST_VALUE = %q", got)
	}
	if got := os.Getenv("TODOS_TEST_KEEP"); got != "from-env" {
		t.Errorf("existing variable overwritten: %q", got)
	}
}
