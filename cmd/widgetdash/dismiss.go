package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetdash/internal/core"
)

var dismissOpts struct {
	all    bool
	banner bool
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [REF...]",
	Short: "Dismiss toasts or the banner in the running instance",
	Long: `Dismiss toasts by reference. A reference is a 1-based index as shown by
'widgetdash snapshot', a toast ID, or a unique prefix of one.

Examples:
  widgetdash dismiss 1
  widgetdash dismiss 01JB7
  widgetdash dismiss --all
  widgetdash dismiss --banner`,
	RunE: runDismiss,
}

func init() {
	rootCmd.AddCommand(dismissCmd)

	dismissCmd.Flags().BoolVarP(&dismissOpts.all, "all", "a", false,
		"Clear every toast")
	dismissCmd.Flags().BoolVar(&dismissOpts.banner, "banner", false,
		"Close the banner")
}

func runDismiss(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !dismissOpts.all && !dismissOpts.banner {
		return errors.New("nothing to dismiss: give a toast reference, --all or --banner")
	}

	client, err := dialInstance()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if dismissOpts.banner {
		if err := client.CloseBanner(); err != nil {
			return fmt.Errorf("failed to close banner: %w", err)
		}
		fmt.Fprintln(out, "banner closed")
	}

	if dismissOpts.all {
		n, err := client.ClearToasts()
		if err != nil {
			return fmt.Errorf("failed to clear toasts: %w", err)
		}
		fmt.Fprintf(out, "cleared %d toasts\n", n)
		return nil
	}

	if len(args) == 0 {
		return nil
	}

	// Resolve every reference against one snapshot so indexes stay stable
	snap, err := client.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read overlay state: %w", err)
	}
	ids := make([]string, 0, len(args))
	for _, ref := range args {
		t, err := core.Resolve(snap.Toasts, ref)
		if err != nil {
			return err
		}
		ids = append(ids, t.ID)
	}

	for _, id := range ids {
		removed, err := client.RemoveToast(id)
		if err != nil {
			return fmt.Errorf("failed to dismiss %s: %w", id, err)
		}
		if removed {
			fmt.Fprintln(out, "dismissed", id)
		} else {
			logger.Debug("toast already gone", "id", id)
		}
	}
	return nil
}
