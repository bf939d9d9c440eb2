package jsonio

import (
	"os"
	"path/filepath"
	"testing"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLoadStripsByteOrderMark(t *testing.T) {
	// PowerShell exports prefix JSON files with a UTF-8 BOM.
	path := filepath.Join(t.TempDir(), "export.json")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"name": "alpha", "count": 3}`)...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	var d doc
	if err := Load(path, &d); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Name != "alpha" || d.Count != 3 {
		t.Errorf("decoded %+v, want {alpha 3}", d)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()

	t.Run("strips byte order mark", func(t *testing.T) {
		path := filepath.Join(dir, "bom.json")
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"name": "beta"}`)...)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
		var d doc
		if !LoadOptional(path, &d) {
			t.Fatal("LoadOptional should succeed")
		}
		if d.Name != "beta" {
			t.Errorf("decoded %+v", d)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var d doc
		if LoadOptional(filepath.Join(dir, "absent.json"), &d) {
			t.Error("missing file should report false")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		var d doc
		if LoadOptional(path, &d) {
			t.Error("malformed file should report false")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		var d doc
		if LoadOptional("", &d) {
			t.Error("empty path should report false")
		}
	})
}

func TestLoadMissingFile(t *testing.T) {
	var d doc
	if err := Load(filepath.Join(t.TempDir(), "absent.json"), &d); err == nil {
		t.Error("Load on a missing file should error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := Save(path, doc{Name: "gamma", Count: 7}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("saved file should end with a newline")
	}

	var d doc
	if err := Load(path, &d); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Name != "gamma" || d.Count != 7 {
		t.Errorf("round trip mismatch: %+v", d)
	}
}
