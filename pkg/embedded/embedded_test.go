package embedded

import (
	"path/filepath"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/fx/effects.yaml":         {Data: []byte("effects: []\n")},
		"data/fx/textures.yaml":        {Data: []byte("textures: []\n")},
		"data/fx/emitters/Glitter.xml": {Data: []byte("<Emitter><Name>A</Name></Emitter>")},
	}
}

// reset restores the package state after a test.
func reset() {
	dataFS = nil
	initialized = false
}

func TestIsInitialized(t *testing.T) {
	reset()
	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(testFS())
	defer reset()

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

func TestNotInitialized(t *testing.T) {
	reset()

	calls := map[string]func() error{
		"Open":     func() error { _, err := Open("data/fx/effects.yaml"); return err },
		"ReadFile": func() error { _, err := ReadFile("data/fx/effects.yaml"); return err },
		"Glob":     func() error { _, err := Glob("data/fx/*.yaml"); return err },
	}
	for name, call := range calls {
		err := call()
		if err == nil {
			t.Errorf("Expected error when calling %s() before Init()", name)
			continue
		}
		if err.Error() != "embedded package not initialized, call Init() first" {
			t.Errorf("%s: unexpected error message: %v", name, err)
		}
	}

	if Exists("data/fx/effects.yaml") {
		t.Error("Expected Exists() to return false before Init()")
	}
}

func TestInvalidPrefix(t *testing.T) {
	Init(testFS())
	defer reset()

	_, err := ReadFile("assets/fx/effects.yaml")
	if err == nil {
		t.Fatal("Expected error for invalid path prefix")
	}
	want := "unknown resource path prefix: assets/fx/effects.yaml (must start with 'data/')"
	if err.Error() != want {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestReadFileAndNormalization(t *testing.T) {
	Init(testFS())
	defer reset()

	for _, path := range []string{"data/fx/effects.yaml", "./data/fx/effects.yaml", `data\fx\effects.yaml`} {
		// backslashes only normalize on Windows; skip that case elsewhere
		if path == `data\fx\effects.yaml` && filepathSeparator() != '\\' {
			continue
		}
		data, err := ReadFile(path)
		if err != nil {
			t.Errorf("ReadFile(%q) failed: %v", path, err)
			continue
		}
		if string(data) != "effects: []\n" {
			t.Errorf("ReadFile(%q) = %q", path, data)
		}
	}

	if !Exists("data/fx/textures.yaml") {
		t.Error("Exists() should find data/fx/textures.yaml")
	}
	if Exists("data/fx/missing.yaml") {
		t.Error("Exists() should not find data/fx/missing.yaml")
	}
}

func TestGlob(t *testing.T) {
	Init(testFS())
	defer reset()

	matches, err := Glob("data/fx/*.yaml")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob matched %v, want 2 files", matches)
	}
}

func filepathSeparator() rune {
	return rune(filepath.Separator)
}
