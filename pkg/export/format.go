package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kilianp07/failpredict/core/model"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name, case-insensitively. An empty name is CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// FileName returns the default download name.
func (f Format) FileName() string {
	switch f {
	case FormatXLSX:
		return FileXLSX
	case FormatJSON:
		return FileJSON
	default:
		return FileCSV
	}
}

// ContentType returns the MIME type of the encoding.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Write encodes rows to w in format f.
func Write(w io.Writer, f Format, rows []model.Row) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatCSV, "":
		return WriteCSV(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}
