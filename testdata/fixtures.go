// Package testdata holds recorded landmark scripts for end-to-end tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ayusman/airpointer/internal/detector"
)

//go:embed scripts/*.json
var scriptsFS embed.FS

// Script is a recorded sequence of detector outputs, one entry per frame.
// An empty entry is a frame with no hand.
type Script struct {
	Description string                      `json:"description"`
	Frames      [][]detector.HandLandmarks `json:"frames"`
}

// LoadScript loads a script by name, without the .json extension.
func LoadScript(name string) (*Script, error) {
	data, err := scriptsFS.ReadFile("scripts/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}

	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script %s: %w", name, err)
	}
	return &s, nil
}

// HandFrames counts the frames that contain a hand.
func (s *Script) HandFrames() int {
	n := 0
	for _, f := range s.Frames {
		if len(f) > 0 {
			n++
		}
	}
	return n
}
