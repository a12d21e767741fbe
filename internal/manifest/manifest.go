// Package manifest writes the JSON description of an exported frame
// sequence that the web spin viewer loads.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one exported sequence. TotalFrames is the number of
// frames actually written.
type Manifest struct {
	ID          uuid.UUID `json:"id"`
	Prefix      string    `json:"imagePrefix"`
	Format      string    `json:"imageFormat"`
	Extension   string    `json:"extension"`
	TotalFrames int       `json:"totalFrames"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Stride      int       `json:"stride"`
	Source      string    `json:"source"`
	Frames      []string  `json:"frames"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// FileName is the manifest file name for a prefix.
func FileName(prefix string) string {
	return prefix + ".json"
}

// Write stores m as <dir>/<prefix>.json and returns the path. A zero ID and
// GeneratedAt are filled in.
func Write(dir string, m Manifest) (string, error) {
	if m.Prefix == "" {
		return "", fmt.Errorf("manifest prefix is required")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.GeneratedAt.IsZero() {
		m.GeneratedAt = time.Now().UTC()
	}
	if m.Frames == nil {
		m.Frames = []string{}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, FileName(m.Prefix))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// Read loads a manifest written by Write.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}
