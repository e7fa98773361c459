// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/jonathan/image-classifier/internal/categories"
	"github.com/jonathan/image-classifier/internal/collection"
	"github.com/jonathan/image-classifier/internal/history"
	"github.com/jonathan/image-classifier/internal/listing"
	"github.com/jonathan/image-classifier/internal/progress"
	"github.com/jonathan/image-classifier/internal/results"
	"github.com/jonathan/image-classifier/internal/upload"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// barWidth is the number of cells of the progress bar
	barWidth = 30
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
	// Now anchors relative times; tests pin it.
	Now func() time.Time
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, Now: time.Now}
}

// pad fills s with spaces up to w terminal cells, truncating when longer.
func pad(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "...")
	}
	return runewidth.FillRight(s, w)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// printTable writes rows under a header, each column as wide as its widest
// cell.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printTable(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = runewidth.FillRight(c, widths[i])
		}
		fmt.Fprintln(p.out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	line(header)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	line(rule)
	for _, row := range rows {
		line(row)
	}
}

// Bar renders percent as a fixed-width bar.
func Bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	filled = max(0, min(filled, barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// PrintProgress writes one progress line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(ev progress.Progress, label string) {
	if ev.Cancelled {
		fmt.Fprintf(p.out, "%s %5.1f%%  cancelado · %s\n", Bar(ev.Percent), ev.Percent, label)
		return
	}
	fmt.Fprintf(p.out, "%s %5.1f%%  %s · %s\n", Bar(ev.Percent), ev.Percent, ev.Stage, label)
}

// PrintUploadSummary outputs the files and options about to be processed.
func (p *Printer) PrintUploadSummary(files []upload.File, category string, opts upload.Options) {
	var sb strings.Builder
	var total int64
	for i, f := range files {
		total += f.Size
		if i < maxItemsToShow {
			sb.WriteString(fmt.Sprintf("• %s (%s)\n", f.Name, humanize.Bytes(uint64(f.Size))))
		}
	}
	if len(files) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(files)-maxItemsToShow))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Category:  %s\n", category))
	sb.WriteString(fmt.Sprintf("Total:     %s\n", humanize.Bytes(uint64(total))))
	sb.WriteString(fmt.Sprintf("Estimate:  ~%ds, $%.2f, %d thread(s)", opts.EstimatedSeconds(len(files)), opts.EstimatedCost(len(files)), opts.Threads(len(files))))

	p.printBox(fmt.Sprintf("UPLOAD (%d files)", len(files)), sb.String())
}

// PrintResult outputs the ranked predictions of one classification.
func (p *Printer) PrintResult(r results.Result) {
	var sb strings.Builder
	top, ok := r.Top()
	if !ok {
		p.printBox("RESULT: "+r.Image.Filename, "No predictions")
		return
	}
	m := r.Metrics()
	sb.WriteString(fmt.Sprintf("Top:     %s (%.1f%%, %s)\n", top.Category, top.Confidence*100, m.Bucket))
	sb.WriteString(fmt.Sprintf("Margin:  %.1f pts over %d candidates\n", m.Margin*100, m.Candidates))
	sb.WriteString(fmt.Sprintf("Time:    %s upload + %s inference\n", r.Processing.Upload, r.Processing.Inference))
	if alts := r.Alternatives(); len(alts) > 0 {
		sb.WriteString("\nAlternatives:\n")
		for _, a := range alts[:min(len(alts), maxItemsToShow)] {
			sb.WriteString(fmt.Sprintf("  • %s %.1f%%\n", a.Category, a.Confidence*100))
		}
	}
	sb.WriteString(fmt.Sprintf("\nModel %s %s", r.Model.Name, r.Model.Version))

	p.printBox("RESULT: "+r.Image.Filename, sb.String())
}

func mark[ID comparable](selected []ID, id ID) string {
	if slices.Contains(selected, id) {
		return "●"
	}
	return "○"
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printFooter(filtered, total, start, end, page, pages int, window []int, selected int) {
	if filtered == 0 {
		fmt.Fprintln(p.out, "No items match the current filters.")
		return
	}
	strip := make([]string, len(window))
	for i, n := range window {
		if n == collection.Ellipsis {
			strip[i] = "…"
		} else if n == page {
			strip[i] = fmt.Sprintf("[%d]", n)
		} else {
			strip[i] = fmt.Sprint(n)
		}
	}
	fmt.Fprintf(p.out, "Showing %d–%d of %d (%d total) · page %d/%d  %s · %d selected\n",
		start, end, filtered, total, page, pages, strings.Join(strip, " "), selected)
}

// PrintHistoryPage outputs one page of the history table.
func (p *Printer) PrintHistoryPage(page listing.Page[history.Record, int]) {
	now := p.Now()
	rows := make([][]string, 0, len(page.Items))
	for _, r := range page.Items {
		rows = append(rows, []string{
			mark(page.Selected, r.ID),
			fmt.Sprint(r.ID),
			r.Filename,
			r.PredictedCategory,
			history.TypeLabel(r.CategoryType),
			fmt.Sprintf("%.1f%%", r.Confidence*100),
			humanize.RelTime(r.ProcessedAt, now, "ago", "from now"),
			fmt.Sprintf("%dms", r.ProcessingTime.Milliseconds()),
		})
	}
	p.printTable([]string{"", "ID", "FILE", "CATEGORY", "TYPE", "CONF.", "PROCESSED", "TIME"}, rows)
	p.printFooter(page.FilteredCount, page.Total, page.Start, page.End, page.Page, page.TotalPages, page.Window, len(page.Selected))
}

// PrintHistoryStats outputs the statistics panel of the history page.
func (p *Printer) PrintHistoryStats(s history.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Classifications:  %s (%d this week)\n", humanize.Comma(int64(s.Total)), s.ThisWeek))
	sb.WriteString(fmt.Sprintf("Avg. confidence:  %.1f%%\n", s.AverageConfidence*100))
	sb.WriteString(fmt.Sprintf("Avg. time:        %dms\n", s.AverageProcessingTime.Milliseconds()))
	sb.WriteString(fmt.Sprintf("Confidence:       %d high, %d medium, %d low\n",
		s.Buckets[collection.BucketHigh], s.Buckets[collection.BucketMedium], s.Buckets[collection.BucketLow]))
	if len(s.Distribution) > 0 {
		sb.WriteString("\n")
		for _, share := range s.Distribution {
			sb.WriteString(fmt.Sprintf("%s %3.0f%% %s\n", pad(share.Label, 10), share.Percent, strings.Repeat("▪", int(share.Percent/5))))
		}
	}
	p.printBox("HISTORY STATISTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCategories outputs the category list.
func (p *Printer) PrintCategories(page listing.Page[categories.Category, string]) {
	rows := make([][]string, 0, len(page.Items))
	for _, c := range page.Items {
		rows = append(rows, []string{
			mark(page.Selected, c.ID),
			shortID(c.ID),
			c.Name,
			categories.TypeLabel(c.Type),
			categories.StatusLabel(c.Status),
			fmt.Sprintf("%d%%", c.Accuracy),
			humanize.Comma(int64(c.TotalClassifications)),
			c.LastUpdated.Format(collection.DateLayout),
		})
	}
	p.printTable([]string{"", "ID", "NAME", "TYPE", "STATUS", "ACC.", "TOTAL", "UPDATED"}, rows)
	p.printFooter(page.FilteredCount, page.Total, page.Start, page.End, page.Page, page.TotalPages, page.Window, len(page.Selected))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PrintCategoryStats outputs the summary cards of the categories page.
func (p *Printer) PrintCategoryStats(s categories.Stats) {
	p.printBox("CATEGORY STATISTICS", fmt.Sprintf(
		"Categories:       %d (%d active, %d training)\nClassifications:  %s\nAvg. accuracy:    %d%%",
		s.Total, s.Active, s.Training, humanize.Comma(int64(s.TotalClassifications)), s.AverageAccuracy))
}

// PrintKeyValues outputs pairs in the given order, aligned on the keys.
func (p *Printer) PrintKeyValues(title string, keys []string, values map[string]string) {
	width := 0
	for _, k := range keys {
		width = max(width, runewidth.StringWidth(k))
	}
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = runewidth.FillRight(k+":", width+1) + " " + values[k]
	}
	p.printBox(title, strings.Join(lines, "\n"))
}

// PrintWelcome outputs the first-run message of the upload page.
func (p *Printer) PrintWelcome() {
	p.printBox("BIENVENIDO", "Sube imágenes JPEG, PNG o WebP (máx. 10MB),\nelige una categoría y pulsa clasificar.\n\nOculta este mensaje con: classifier welcome dismiss")
}
