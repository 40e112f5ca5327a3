package fieldfx

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Storage keys for the persisted selection.
const (
	themeObject   = "fieldfx"
	themeProperty = "selection"
)

// ThemeSelection is what a ThemeStore persists between runs.
type ThemeSelection struct {
	Theme       string  `yaml:"theme"`
	IdleDensity float64 `yaml:"idleDensity"`
}

// ThemeStore remembers the player's theme choice across runs. With a nil
// manager it keeps the selection in memory only.
type ThemeStore struct {
	gdataManager *gdata.Manager
	selection    ThemeSelection
}

// OpenThemeStore opens platform storage for appName.
func OpenThemeStore(appName string) (*ThemeStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open theme store: %w", err)
	}
	return NewThemeStore(m), nil
}

// NewThemeStore wraps an existing gdata manager, which may be nil.
func NewThemeStore(m *gdata.Manager) *ThemeStore {
	return &ThemeStore{gdataManager: m}
}

// Load reads the persisted selection. A missing record leaves the zero
// selection in place and is not an error.
func (s *ThemeStore) Load() error {
	if s.gdataManager == nil {
		return nil
	}
	if !s.gdataManager.ObjectPropExists(themeObject, themeProperty) {
		return nil
	}
	data, err := s.gdataManager.LoadObjectProp(themeObject, themeProperty)
	if err != nil {
		return fmt.Errorf("failed to load theme selection: %w", err)
	}
	var sel ThemeSelection
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return fmt.Errorf("failed to unmarshal theme selection: %w", err)
	}
	s.selection = sel
	return nil
}

// Save persists the current selection. No-op in memory-only mode.
func (s *ThemeStore) Save() error {
	if s.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.selection)
	if err != nil {
		return fmt.Errorf("failed to marshal theme selection: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(themeObject, themeProperty, data); err != nil {
		return fmt.Errorf("failed to save theme selection: %w", err)
	}
	return nil
}

// Selection returns the current selection.
func (s *ThemeStore) Selection() ThemeSelection {
	return s.selection
}

// Select replaces the current selection. Call Save to persist it.
func (s *ThemeStore) Select(sel ThemeSelection) {
	s.selection = sel
}
