package theme

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultThemeName is the palette used when a name is unknown.
const DefaultThemeName = "aurora"

// Variable names shared by every palette.
const (
	VarAccent       = "accent"
	VarAccentLight  = "accentLight"
	VarAccentDark   = "accentDark"
	VarSuccess      = "success"
	VarSuccessBg    = "successBg"
	VarSurface      = "surface"
	VarSurfaceHover = "surfaceHover"
	VarSurfaceSolid = "surfaceSolid"
	VarText         = "text"
	VarTextMuted    = "textMuted"
	VarTextSubtle   = "textSubtle"
	VarShadow       = "shadow"
	VarGlow         = "glow"
	VarWarning      = "warning"
	VarDanger       = "danger"
	VarInfo         = "info"
)

// Palette is a named set of colour variables. Values are CSS colours.
type Palette struct {
	Name string
	Path string // Source file for user palettes, empty for bundled ones
	Vars map[string]string
}

// Spec describes a palette by its accent colours.
type Spec struct {
	Accent       string  `toml:"accent"`
	AccentLight  string  `toml:"accent_light"`
	AccentDark   string  `toml:"accent_dark"`
	SurfaceAlpha float64 `toml:"surface_alpha"`
}

// DefaultSurfaceAlpha is the surface opacity when a Spec leaves it unset.
const DefaultSurfaceAlpha = 0.12

// New builds a palette from its accent colours. The status colours are
// shared by every palette; success follows the accent.
func New(name string, spec Spec) *Palette {
	alpha := spec.SurfaceAlpha
	if alpha <= 0 {
		alpha = DefaultSurfaceAlpha
	}
	accent := spec.Accent
	light := spec.AccentLight
	if light == "" {
		light = accent + "aa"
	}
	dark := spec.AccentDark
	if dark == "" {
		dark = accent + "dd"
	}

	return &Palette{
		Name: name,
		Vars: map[string]string{
			VarAccent:       accent,
			VarAccentLight:  light,
			VarAccentDark:   dark,
			VarSuccess:      accent,
			VarSuccessBg:    accent + "20",
			VarSurface:      rgba(255, 255, 255, alpha),
			VarSurfaceHover: rgba(255, 255, 255, alpha+0.06),
			VarSurfaceSolid: "rgba(20, 20, 30, 0.95)",
			VarText:         "#ffffff",
			VarTextMuted:    "rgba(255, 255, 255, 0.7)",
			VarTextSubtle:   "rgba(255, 255, 255, 0.5)",
			VarShadow:       "rgba(0, 0, 0, 0.3)",
			VarGlow:         accent + "66",
			VarWarning:      "#f59e0b",
			VarDanger:       "#ef4444",
			VarInfo:         "#3b82f6",
		},
	}
}

// WithAccent returns a copy of p recoloured around a custom accent.
func (p *Palette) WithAccent(accent string) *Palette {
	if accent == "" || accent == p.Vars[VarAccent] {
		return p
	}
	alpha := DefaultSurfaceAlpha
	if s, ok := Bundled()[p.Name]; ok && s.SurfaceAlpha > 0 {
		alpha = s.SurfaceAlpha
	}
	np := New(p.Name, Spec{Accent: accent, SurfaceAlpha: alpha})
	np.Path = p.Path
	return np
}

// Bundled returns the built-in palette specs.
func Bundled() map[string]Spec {
	return map[string]Spec{
		"aurora":   {Accent: "#7c3aed", AccentLight: "#a78bfa", AccentDark: "#5b21b6", SurfaceAlpha: 0.12},
		"sakura":   {Accent: "#ec4899", AccentLight: "#f472b6", AccentDark: "#be185d", SurfaceAlpha: 0.15},
		"midnight": {Accent: "#06b6d4", AccentLight: "#22d3ee", AccentDark: "#0891b2", SurfaceAlpha: 0.08},
		"forest":   {Accent: "#22c55e", AccentLight: "#4ade80", AccentDark: "#16a34a", SurfaceAlpha: 0.10},
		"sunset":   {Accent: "#f97316", AccentLight: "#fb923c", AccentDark: "#ea580c", SurfaceAlpha: 0.12},
		"ocean":    {Accent: "#0ea5e9", AccentLight: "#38bdf8", AccentDark: "#0284c7", SurfaceAlpha: 0.10},
	}
}

// BundledNames returns the bundled palette names, sorted.
func BundledNames() []string {
	names := make([]string, 0, len(Bundled()))
	for name := range Bundled() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Default returns the default bundled palette.
func Default() *Palette {
	return New(DefaultThemeName, Bundled()[DefaultThemeName])
}

var varRef = regexp.MustCompile(`^var\(\s*--([A-Za-z0-9_-]+)\s*\)$`)

// Resolve returns the CSS value for a variable name or a var(--name)
// reference. Literal colours pass through unchanged.
func (p *Palette) Resolve(ref string) string {
	name := ref
	if m := varRef.FindStringSubmatch(strings.TrimSpace(ref)); m != nil {
		name = m[1]
	}
	if v, ok := p.Vars[name]; ok {
		return v
	}
	return ref
}

// Color resolves ref to a terminal colour. Translucent values are blended
// over the solid surface colour, since a terminal cell has no alpha.
func (p *Palette) Color(ref string) lipgloss.Color {
	hex, err := toHex(p.Resolve(ref), [3]float64{20, 20, 30})
	if err != nil {
		return lipgloss.Color(p.Vars[VarText])
	}
	return lipgloss.Color(hex)
}

// CSS renders the palette as a :root custom-property block.
func (p *Palette) CSS() string {
	names := make([]string, 0, len(p.Vars))
	for name := range p.Vars {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  --%s: %s;\n", name, p.Vars[name])
	}
	b.WriteString("}\n")
	return b.String()
}

func rgba(r, g, b int, a float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(math.Round(a*100)/100, 'f', -1, 64))
}

var rgbaRe = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*([0-9.]+)\s*)?\)$`)

// toHex converts #rgb, #rrggbb, #rrggbbaa and rgb()/rgba() to #rrggbb,
// blending any alpha over base.
func toHex(value string, base [3]float64) (string, error) {
	value = strings.TrimSpace(strings.ToLower(value))

	var rgb [3]float64
	alpha := 1.0

	switch {
	case strings.HasPrefix(value, "#"):
		h := value[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) != 6 && len(h) != 8 {
			return "", fmt.Errorf("invalid hex colour %q", value)
		}
		n, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return "", fmt.Errorf("invalid hex colour %q: %w", value, err)
		}
		if len(h) == 8 {
			alpha = float64(n&0xff) / 255
			n >>= 8
		}
		rgb = [3]float64{float64(n >> 16 & 0xff), float64(n >> 8 & 0xff), float64(n & 0xff)}

	case rgbaRe.MatchString(value):
		m := rgbaRe.FindStringSubmatch(value)
		for i := range 3 {
			c, _ := strconv.Atoi(m[i+1])
			rgb[i] = float64(min(c, 255))
		}
		if m[4] != "" {
			a, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				return "", fmt.Errorf("invalid alpha in %q: %w", value, err)
			}
			alpha = min(max(a, 0), 1)
		}

	default:
		return "", fmt.Errorf("unsupported colour %q", value)
	}

	var out [3]int
	for i := range 3 {
		out[i] = int(math.Round(rgb[i]*alpha + base[i]*(1-alpha)))
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2]), nil
}
