package jsonio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Load decodes a JSON file into v. Exported files often carry a UTF-8
// byte-order mark (PowerShell writes one), so the reader strips it before
// decoding.
func Load(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadOptional decodes a JSON file into v and reports whether it succeeded.
// A missing or malformed file is treated as absent and returns false. On a
// malformed file v may be partially populated; callers discard it when false
// is returned.
func LoadOptional(path string, v interface{}) bool {
	if path == "" {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	r := transform.NewReader(bytes.NewReader(data), unicode.UTF8BOM.NewDecoder())
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return false
	}
	return true
}

// Save writes v as indented JSON, creating parent directories as needed and
// overwriting any existing file.
func Save(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
