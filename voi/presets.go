package voi

import (
	"sort"
	"sync"
)

// presetRegistry manages named window presets
type presetRegistry struct {
	mu      sync.RWMutex
	presets map[string]Window
}

// Standard CT viewing windows, registered by default
var defaultPresets = &presetRegistry{
	presets: map[string]Window{
		"SOFT_TISSUE": {Center: 40, Width: 400},
		"BONE":        {Center: 400, Width: 2000},
		"LUNG":        {Center: -600, Width: 1500},
		"BRAIN":       {Center: 50, Width: 350},
	},
}

// RegisterPreset registers a named window preset, replacing any preset with
// the same name
func RegisterPreset(name string, win Window) {
	defaultPresets.mu.Lock()
	defer defaultPresets.mu.Unlock()
	defaultPresets.presets[name] = win
}

// Preset retrieves a window preset by name
func Preset(name string) (Window, bool) {
	defaultPresets.mu.RLock()
	defer defaultPresets.mu.RUnlock()
	win, ok := defaultPresets.presets[name]
	return win, ok
}

// Presets returns the names of all registered presets, sorted
func Presets() []string {
	defaultPresets.mu.RLock()
	defer defaultPresets.mu.RUnlock()
	names := make([]string, 0, len(defaultPresets.presets))
	for name := range defaultPresets.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
