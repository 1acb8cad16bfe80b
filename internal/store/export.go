package store

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatYAML   = "yaml"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// exportRecord is the flattened shape written by Export.
type exportRecord struct {
	ID   string     `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
	Due  *time.Time `json:"due" yaml:"due"`
}

// NormalizeFormat maps user input to one of the export formats.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON, "jsonl":
		return FormatNDJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (use json|ndjson|yaml)", ErrInvalid, format)
	}
}

// Export writes tasks to w in the given format.
func Export(w io.Writer, tasks []Task, format string) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	records := make([]exportRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, exportRecord{ID: t.ID.String(), Name: t.Name.String(), Due: t.Due})
	}
	switch format {
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
}

// ExportFileName names an export file. ULIDs sort by creation time, so a
// directory listing shows exports in the order they were taken.
func ExportFileName(format string) (string, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return "", err
	}
	id, err := ulid.New(ulid.Timestamp(timeNow()), ulid.Monotonic(randReader{}, 0))
	if err != nil {
		return "", fmt.Errorf("export file id: %w", err)
	}
	return fmt.Sprintf("tasks-%s.%s", id, format), nil
}
