package quality

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownPreset is returned for a preset name outside the supported set.
var ErrUnknownPreset = errors.New("unknown quality preset")

// Preset is one of the square resolutions offered to the artist, or Custom.
type Preset string

const (
	Preset4096 Preset = "4096"
	Preset2048 Preset = "2048"
	Preset1024 Preset = "1024"
	Preset512  Preset = "512"
	Preset128  Preset = "128"
	Custom     Preset = "CUSTOM"
)

// Presets lists the selectable presets in menu order.
var Presets = []Preset{Preset4096, Preset2048, Preset1024, Preset512, Preset128, Custom}

// ParsePreset accepts a preset name case-insensitively.
func ParsePreset(s string) (Preset, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("quality: %q: %w", s, ErrUnknownPreset)
}

// Resolution returns the pixel size for p. custom is used only for Custom
// and must be at least 1.
func (p Preset) Resolution(custom int) (int, error) {
	if p == Custom {
		if custom < 1 {
			return 0, fmt.Errorf("quality: custom resolution %d must be at least 1", custom)
		}
		return custom, nil
	}
	if _, err := ParsePreset(string(p)); err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(string(p))
	return n, nil
}
