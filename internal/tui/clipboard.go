package tui

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/store"
)

// copyText pipes text into the clipboard command.
func copyText(ctx context.Context, text string, cfg *config.Config) error {
	cmd := detectClipboardCommand(cfg, exec.LookPath)
	if cmd == "" {
		return fmt.Errorf("no clipboard command available")
	}

	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return fmt.Errorf("invalid clipboard command")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)

	return c.Run()
}

// detectClipboardCommand returns the configured command, else the first
// of wl-copy, xclip and xsel found on PATH.
func detectClipboardCommand(cfg *config.Config, lookPath func(string) (string, error)) string {
	if cfg != nil && cfg.TUI.ClipboardCommand != "" {
		return cfg.TUI.ClipboardCommand
	}

	candidates := []struct{ bin, cmd string }{
		{"wl-copy", "wl-copy"},
		{"xclip", "xclip -selection clipboard"},
		{"xsel", "xsel --clipboard --input"},
	}
	for _, c := range candidates {
		if _, err := lookPath(c.bin); err == nil {
			return c.cmd
		}
	}

	return ""
}

// snapshotYAML renders the overlay state for the clipboard.
func snapshotYAML(snap store.Snapshot) (string, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(data), nil
}
