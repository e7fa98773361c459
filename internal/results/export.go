package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Encode renders r for download and returns the data and its mime type.
func Encode(r Result, format string) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("encode result: %w", err)
		}
		return data, "application/json", nil
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		top, _ := r.Top()
		rows := [][]string{
			{"Archivo", "Categoría", "Confianza", "Tiempo de Procesamiento"},
			{
				r.Image.Filename,
				top.Category,
				strconv.FormatFloat(top.Confidence*100, 'f', 1, 64) + "%",
				strconv.FormatInt(r.Processing.Total.Milliseconds(), 10) + "ms",
			},
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, "", fmt.Errorf("encode result: %w", err)
		}
		return buf.Bytes(), "text/csv", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

// Filename is the suggested download name for a result exported at unixMilli.
func Filename(unixMilli int64, format string) string {
	return fmt.Sprintf("clasificacion_resultado_%d.%s", unixMilli, format)
}
