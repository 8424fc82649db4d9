package testsupport

import (
	"path/filepath"
	"testing"

	"mangadoctor/internal/config"
)

// NewConfig produces a config whose catalog path points into a per-test
// temp directory. The catalog file itself is not created.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "catalog.sqlite")
	cfg.Output.Color = "never"
	return &cfg
}
