package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/image-classifier/internal/history"
	"github.com/jonathan/image-classifier/internal/listing"
	"github.com/jonathan/image-classifier/internal/results"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Browse, export and delete past classifications",
}

var historyListCommand = &cobra.Command{
	Use:   "list",
	Short: "Show one page of the history",
	RunE:  runHistoryList,
}

var historyStatsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Show the history statistics",
	RunE:  runHistoryStats,
}

var historyViewCommand = &cobra.Command{
	Use:   "view <id>",
	Short: "Open the results of one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryView,
}

var historyExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export records to the export directory",
	Long: `Exports the records given with --id, or every record of the current page when none
is given. A single --id writes clasificacion_<id>.<format>; anything else writes
historial_<date>.<format>.`,
	RunE: runHistoryExport,
}

var historyDeleteCommand = &cobra.Command{
	Use:   "delete",
	Short: "Delete records after confirmation",
	RunE:  runHistoryDelete,
}

// historyQuery holds the filter, sort and paging flags shared by the
// history subcommands.
type historyQuery struct {
	search     string
	category   string
	confidence string
	from       string
	to         string
	sort       string
	page       int
	perPage    int
}

var (
	historyQ      historyQuery
	historyIDs    []int
	historyFormat string
	historyYes    bool
)

func (q *historyQuery) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "Match filename or predicted category")
	cmd.Flags().StringVar(&q.category, "category", "", "Category type or label")
	cmd.Flags().StringVar(&q.confidence, "confidence", "", "Confidence bucket: high, medium or low")
	cmd.Flags().StringVar(&q.from, "from", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&q.to, "to", "", "Last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&q.sort, "sort", "", "date-desc, date-asc, confidence-desc, confidence-asc, filename-asc or filename-desc")
	cmd.Flags().IntVarP(&q.page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&q.perPage, "per-page", 0, "Records per page: 10, 25, 50 or 100 (default from preferences)")
}

// apply runs the flags through the controller in the order the page applies
// them: page size, filters, sort, then page.
func (q *historyQuery) apply(c *history.Controller) error {
	if q.perPage != 0 {
		if err := c.SetPerPage(q.perPage); err != nil {
			return err
		}
	}
	for key, value := range map[string]string{
		history.FilterSearch:     q.search,
		history.FilterCategory:   q.category,
		history.FilterConfidence: q.confidence,
		history.FilterDateFrom:   q.from,
		history.FilterDateTo:     q.to,
	} {
		if value == "" {
			continue
		}
		if err := c.SetFilter(key, value); err != nil {
			return err
		}
	}
	if q.sort != "" {
		if err := c.SetSort(q.sort); err != nil {
			return err
		}
	}
	if q.page > 1 {
		return c.SetPage(q.page)
	}
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{historyListCommand, historyExportCommand, historyDeleteCommand} {
		historyQ.bind(cmd)
	}
	for _, cmd := range []*cobra.Command{historyExportCommand, historyDeleteCommand} {
		cmd.Flags().IntSliceVar(&historyIDs, "id", nil, "Record id (repeatable); must be on the selected page")
	}
	historyExportCommand.Flags().StringVarP(&historyFormat, "format", "f", "", "json or csv (default from preferences)")
	historyDeleteCommand.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")

	historyCommand.AddCommand(historyListCommand, historyStatsCommand, historyViewCommand, historyExportCommand, historyDeleteCommand)
	rootCmd.AddCommand(historyCommand)
}

func openHistory(cmd *cobra.Command) (*app, *history.Controller, error) {
	a, err := openApp(cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	c, err := a.history()
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, c, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	a, c, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := historyQ.apply(c); err != nil {
		return err
	}
	a.printer.PrintHistoryPage(c.Page())
	return nil
}

func runHistoryStats(cmd *cobra.Command, _ []string) error {
	a, c, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.printer.PrintHistoryStats(c.Stats())
	return nil
}

func runHistoryView(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	a, c, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := c.View(id); err != nil {
		return err
	}
	visit, _ := a.nav.Last()
	r, ok := visit.Payload.(results.Result)
	if !ok {
		return fmt.Errorf("unexpected results payload %T", visit.Payload)
	}
	a.printer.PrintResult(r)
	return nil
}

// selectRecords selects the --id records, or the whole page when none.
func selectRecords(c *history.Controller) error {
	if len(historyIDs) == 0 {
		c.SelectAll()
		return nil
	}
	for _, id := range historyIDs {
		if _, err := c.Toggle(id); err != nil {
			if errors.Is(err, listing.ErrNotVisible) {
				return fmt.Errorf("record %d is not on the selected page; adjust the filters or --page", id)
			}
			return err
		}
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, _ []string) error {
	a, c, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	format := historyFormat
	if format == "" {
		format = a.prefs.ExportFormat
		if format == "yaml" {
			format = "json"
		}
	}

	var name string
	if len(historyIDs) == 1 {
		name, err = c.ExportItem(historyIDs[0], format)
	} else {
		if err := historyQ.apply(c); err != nil {
			return err
		}
		if err := selectRecords(c); err != nil {
			return err
		}
		name, err = c.BulkExport(format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s/%s\n", a.sink.Dir(), name)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, _ []string) error {
	a, c, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	confirm := a.confirmer(historyYes)
	var n int
	if len(historyIDs) == 1 {
		var removed bool
		removed, err = c.Delete(historyIDs[0], confirm)
		if removed {
			n = 1
		}
	} else {
		if err := historyQ.apply(c); err != nil {
			return err
		}
		if err := selectRecords(c); err != nil {
			return err
		}
		n, err = c.BulkDelete(confirm)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted")
		return nil
	}
	if err := a.saveHistory(c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s)\n", n)
	return nil
}
