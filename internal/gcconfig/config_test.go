package gcconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Allocator.Backend != BackendArena {
		t.Fatalf("expected default backend arena, got %q", cfg.Allocator.Backend)
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
[allocator]
backend = "mmap"

[trace]
enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Allocator.Backend != BackendMmap {
		t.Fatalf("expected backend mmap, got %q", cfg.Allocator.Backend)
	}
	if !cfg.Trace.Enabled {
		t.Fatal("expected trace enabled")
	}
}

func TestLoadBlankBackendFallsBackToArena(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("[trace]\nenabled = false\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Allocator.Backend != BackendArena {
		t.Fatalf("expected fallback to arena, got %q", cfg.Allocator.Backend)
	}
}
