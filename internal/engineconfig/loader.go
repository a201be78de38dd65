package engineconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML settings at path. An empty path yields Default().
// KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*File, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML settings on top of Default() and validates them
func Parse(data []byte) (*File, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode engine config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Hash returns the SHA256 of the engine section's canonical JSON.
// Cache keys embed it so results computed under other assumptions are never served.
func Hash(cfg *File) (string, error) {
	jsonBytes, err := json.Marshal(cfg.Engine)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
