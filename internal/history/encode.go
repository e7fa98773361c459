package history

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type exportRecord struct {
	ID                int     `json:"id"`
	Filename          string  `json:"filename"`
	PredictedCategory string  `json:"predictedCategory"`
	CategoryType      string  `json:"categoryType"`
	Confidence        float64 `json:"confidence"`
	ProcessedAt       string  `json:"processedAt"`
	ProcessingTimeMS  int64   `json:"processingTime"`
}

var csvHeader = []string{"ID", "Archivo", "Categoría", "Tipo", "Confianza", "Fecha", "Tiempo (ms)"}

// Encode renders records for download and returns the data and its mime
// type.
func Encode(records []Record, format string) ([]byte, string, error) {
	rows := make([]exportRecord, len(records))
	for i, r := range records {
		rows[i] = exportRecord{
			ID:                r.ID,
			Filename:          r.Filename,
			PredictedCategory: r.PredictedCategory,
			CategoryType:      r.CategoryType,
			Confidence:        r.Confidence,
			ProcessedAt:       r.ProcessedAt.Format(time.RFC3339),
			ProcessingTimeMS:  r.ProcessingTime.Milliseconds(),
		}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("encode history: %w", err)
		}
		return data, "application/json", nil
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(csvHeader); err != nil {
			return nil, "", fmt.Errorf("encode history: %w", err)
		}
		for _, r := range rows {
			err := w.Write([]string{
				strconv.Itoa(r.ID),
				r.Filename,
				r.PredictedCategory,
				TypeLabel(r.CategoryType),
				strconv.FormatFloat(r.Confidence, 'f', -1, 64),
				r.ProcessedAt,
				strconv.FormatInt(r.ProcessingTimeMS, 10),
			})
			if err != nil {
				return nil, "", fmt.Errorf("encode history: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", fmt.Errorf("encode history: %w", err)
		}
		return buf.Bytes(), "text/csv", nil
	default:
		return nil, "", &ValidationError{Field: "format", Value: format, Message: "must be json or csv"}
	}
}
