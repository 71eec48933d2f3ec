package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetdash/internal/adapter/input"
	"github.com/jmylchreest/widgetdash/internal/core"
	"github.com/jmylchreest/widgetdash/internal/model"
)

var notifyOpts struct {
	kind     string
	title    string
	duration string
	banner   bool
	pinned   bool
	stdin    bool
	file     string
}

var notifyCmd = &cobra.Command{
	Use:   "notify [MESSAGE...]",
	Short: "Raise a toast or banner in the running instance",
	Long: `Raise a toast (or with --banner, the banner) in a running widgetdash.

Toasts can also be read as JSON from standard input or a file, either one
array or one object per line:

  {"type": "error", "title": "Backup", "message": "Disk full", "duration_ms": 0}

Examples:
  widgetdash notify "Build finished"
  widgetdash notify -t error --title Deploy --duration 0 "Rollout failed"
  widgetdash notify --banner -t warning --pinned "Maintenance at 18:00"
  journalctl -o json ... | jq -c '{type:"error", message:.MESSAGE}' | widgetdash notify --stdin`,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)

	notifyCmd.Flags().StringVarP(&notifyOpts.kind, "type", "t", "info",
		"Overlay type (success, error, warning, info)")
	notifyCmd.Flags().StringVar(&notifyOpts.title, "title", "",
		"Title line")
	notifyCmd.Flags().StringVarP(&notifyOpts.duration, "duration", "d", "",
		"Toast lifetime (e.g. 3s; 0 or 'persistent' never expires; default from config)")
	notifyCmd.Flags().BoolVar(&notifyOpts.banner, "banner", false,
		"Show the banner instead of a toast")
	notifyCmd.Flags().BoolVar(&notifyOpts.pinned, "pinned", false,
		"Make the banner non-dismissible")
	notifyCmd.Flags().BoolVar(&notifyOpts.stdin, "stdin", false,
		"Read toasts as JSON from standard input")
	notifyCmd.Flags().StringVar(&notifyOpts.file, "file", "",
		"Read toasts as JSON from a file")
}

func runNotify(cmd *cobra.Command, args []string) error {
	var specs []model.ToastSpec
	switch {
	case notifyOpts.stdin || notifyOpts.file != "":
		if len(args) > 0 || notifyOpts.banner {
			return errors.New("--stdin and --file cannot be combined with a message or --banner")
		}
		source := notifyOpts.file
		if notifyOpts.stdin {
			source = "-"
		}
		var err error
		specs, err = readSpecs(cmd.Context(), source)
		if err != nil {
			return err
		}
		if len(specs) == 0 {
			return errors.New("no toasts in input")
		}
	default:
		spec, err := specFromFlags(args)
		if err != nil {
			return err
		}
		specs = []model.ToastSpec{spec}
	}

	client, err := dialInstance()
	if err != nil {
		return err
	}

	if notifyOpts.banner {
		s := specs[0]
		id, err := client.ShowBanner(s.Kind, s.Title, s.Message, !notifyOpts.pinned)
		if err != nil {
			return fmt.Errorf("failed to show banner: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	}

	for _, s := range specs {
		id, err := client.AddToast(s.Kind, s.Title, s.Message, durationMillis(s.Duration))
		if err != nil {
			return fmt.Errorf("failed to add toast: %w", err)
		}
		logger.Debug("toast added", "id", id, "type", s.Kind)
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func readSpecs(ctx context.Context, source string) ([]model.ToastSpec, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	adapter, err := input.NewAdapter(source)
	if err != nil {
		return nil, err
	}
	return adapter.Import(ctx)
}

// specFromFlags builds the single toast described by the flags and args.
func specFromFlags(args []string) (model.ToastSpec, error) {
	kind, err := core.ParseKind(notifyOpts.kind)
	if err != nil {
		return model.ToastSpec{}, err
	}
	d, err := parseToastDuration(notifyOpts.duration)
	if err != nil {
		return model.ToastSpec{}, err
	}
	message := strings.Join(args, " ")
	if message == "" && notifyOpts.title == "" {
		return model.ToastSpec{}, errors.New("a message or --title is required")
	}
	return model.ToastSpec{
		Kind:     kind,
		Title:    notifyOpts.title,
		Message:  message,
		Duration: d,
	}, nil
}

// parseToastDuration parses the --duration flag. Empty means the default.
func parseToastDuration(s string) (*time.Duration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "0", "persistent", "sticky":
		return model.Persistent(), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	return model.After(d), nil
}
