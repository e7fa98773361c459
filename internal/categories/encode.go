package categories

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// Encode renders cats for download and returns the data and its mime type.
// CSV rows are name, type, status, accuracy and classification count, with
// no header row.
func Encode(cats []Category, format string) ([]byte, string, error) {
	if cats == nil {
		cats = []Category{}
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(cats, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("encode categories: %w", err)
		}
		return data, "application/json", nil
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		for _, c := range cats {
			row := []string{c.Name, c.Type, c.Status, strconv.Itoa(c.Accuracy), strconv.Itoa(c.TotalClassifications)}
			if err := w.Write(row); err != nil {
				return nil, "", fmt.Errorf("encode categories: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", fmt.Errorf("encode categories: %w", err)
		}
		return buf.Bytes(), "text/csv", nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cats); err != nil {
			return nil, "", fmt.Errorf("encode categories: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("encode categories: %w", err)
		}
		return buf.Bytes(), "application/yaml", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

// yamlToJSON converts a YAML export into the JSON the import schema checks.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return out, nil
}
