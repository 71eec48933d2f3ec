package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetdash/internal/adapter/output"
	"github.com/jmylchreest/widgetdash/internal/core"
	"github.com/jmylchreest/widgetdash/internal/store"
)

var snapshotOpts struct {
	// Filter options
	kind   string
	search string
	filter string
	limit  int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	template string
	compact  bool
	noIndex  bool
}

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"get"},
	Short:   "Print the live overlay state",
	Long: `Print the running instance's toasts, modal, banner and toast position.

Toasts can be filtered and sorted before output; the modal, banner and
position are always included.

Filter expressions combine conditions with commas:
  type=error              exact type (success, error, warning, info)
  message~disk            substring in message (title~ for titles)
  title~=^Back            regular expression
  age>30s, remaining<2s   durations
  persistent=true         never-expiring toasts
  action=true             toasts with an action button

Examples:
  widgetdash snapshot
  widgetdash snapshot --format json
  widgetdash snapshot --filter 'type=error,persistent=true' --format ids
  widgetdash snapshot --sort expires --template '{{.Index}} {{.Toast.Message}} ({{remaining .Toast}})'`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOpts.kind, "type", "t", "",
		"Only toasts of this type")
	snapshotCmd.Flags().StringVarP(&snapshotOpts.search, "search", "s", "",
		"Search in title and message")
	snapshotCmd.Flags().StringVar(&snapshotOpts.filter, "filter", "",
		"Filter expression (see above)")
	snapshotCmd.Flags().IntVarP(&snapshotOpts.limit, "limit", "n", 0,
		"Maximum number of toasts to show (0=unlimited)")

	snapshotCmd.Flags().StringVar(&snapshotOpts.sortBy, "sort", string(core.SortByCreated),
		"Sort by field (created, expires, type)")
	snapshotCmd.Flags().StringVar(&snapshotOpts.sortOrder, "order", string(core.SortAsc),
		"Sort order (asc, desc)")

	snapshotCmd.Flags().StringVarP(&snapshotOpts.format, "format", "f", string(output.FormatPlain),
		fmt.Sprintf("Output format %v", output.Formats()))
	snapshotCmd.Flags().StringVar(&snapshotOpts.template, "template", "",
		"Go template per toast for plain output")
	snapshotCmd.Flags().BoolVar(&snapshotOpts.compact, "compact", false,
		"Single-line JSON")
	snapshotCmd.Flags().BoolVar(&snapshotOpts.noIndex, "no-index", false,
		"Omit the index column in plain output")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(snapshotOpts.format)
	if err != nil {
		return err
	}

	client, err := dialInstance()
	if err != nil {
		return err
	}
	snap, err := client.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read overlay state: %w", err)
	}

	if err := selectToasts(&snap); err != nil {
		return err
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = snapshotOpts.template
	opts.Compact = snapshotOpts.compact
	opts.ShowIndex = !snapshotOpts.noIndex
	return output.NewFormatter(format, opts).Format(cmd.OutOrStdout(), snap)
}

// selectToasts applies the filter, sort and limit flags to snap.Toasts.
func selectToasts(snap *store.Snapshot) error {
	toasts := snap.Toasts

	if snapshotOpts.filter != "" {
		expr, err := core.ParseFilter(snapshotOpts.filter)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		toasts = core.FilterWithExpr(toasts, expr)
	}

	opts := core.FilterOptions{Search: snapshotOpts.search}
	if snapshotOpts.kind != "" {
		kind, err := core.ParseKind(snapshotOpts.kind)
		if err != nil {
			return err
		}
		opts.Kind = kind
	}
	toasts = core.Filter(toasts, opts)

	field, err := core.ParseSortField(snapshotOpts.sortBy)
	if err != nil {
		return err
	}
	order, err := core.ParseSortOrder(snapshotOpts.sortOrder)
	if err != nil {
		return err
	}
	core.Sort(toasts, core.SortOptions{Field: field, Order: order})

	if snapshotOpts.limit > 0 && len(toasts) > snapshotOpts.limit {
		toasts = toasts[:snapshotOpts.limit]
	}
	snap.Toasts = toasts
	return nil
}
