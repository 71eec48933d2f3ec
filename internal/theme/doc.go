// Package theme resolves the colour variables overlay renderers refer to
// by name (var(--accent), var(--danger), ...). It ships the bundled
// palettes and loads user palettes from ~/.config/widgetdash/themes/.
package theme
