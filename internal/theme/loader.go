package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "widgetdash", "themes"), nil
}

// Loader resolves palette names against a user directory and the
// bundled palettes.
type Loader struct {
	logger    *slog.Logger
	themesDir string
}

// NewLoader creates a loader reading user palettes from themesDir.
// An empty themesDir means ThemesDir().
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if themesDir == "" {
		dir, err := ThemesDir()
		if err != nil {
			logger.Warn("failed to get themes directory", "error", err)
		}
		themesDir = dir
	}
	return &Loader{logger: logger, themesDir: themesDir}
}

// Load resolves a palette by name.
// Resolution order:
//  1. User themes directory (<name>.toml)
//  2. Bundled palettes
//  3. The default palette, with a warning
//
// A user file with the same name as a bundled palette overrides it.
func (l *Loader) Load(name string) *Palette {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultThemeName
	}

	if l.themesDir != "" {
		path := filepath.Join(l.themesDir, name+".toml")
		p, err := LoadFile(name, path)
		switch {
		case err == nil:
			l.logger.Debug("loaded user theme", "name", name, "path", path)
			return p
		case !errors.Is(err, os.ErrNotExist):
			l.logger.Warn("failed to load user theme, trying bundled", "name", name, "error", err)
		}
	}

	if spec, ok := Bundled()[name]; ok {
		return New(name, spec)
	}

	l.logger.Warn("unknown theme, using default", "name", name, "default", DefaultThemeName)
	return Default()
}

// LoadFile reads a palette Spec from a TOML file.
func LoadFile(name, path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec Spec
	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if spec.Accent == "" {
		return nil, fmt.Errorf("theme %s: accent is required", path)
	}
	if _, err := toHex(spec.Accent, [3]float64{}); err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}

	p := New(name, spec)
	p.Path = path
	return p, nil
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// List returns bundled palettes followed by user palettes not shadowing them.
func (l *Loader) List() ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	for _, name := range BundledNames() {
		seen[name] = true
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if l.themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(l.themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".toml")
		if seen[name] {
			continue
		}
		seen[name] = true
		themes = append(themes, ThemeInfo{
			Name: name,
			Path: filepath.Join(l.themesDir, entry.Name()),
		})
	}

	return themes, nil
}
