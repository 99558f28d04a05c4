package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"time"

	"catalog-export/internal/model"
	"catalog-export/internal/obs"
	"catalog-export/pkg/utils"

	"github.com/go-faster/errors"
)

// ExportResult represents the result of an export operation
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "json"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	FileSize    int64     `json:"file_size"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ExportRows writes rows to path, choosing the format from the extension.
// The file is truncated if it exists.
func ExportRows(path string, rows []model.Row) ExportResult {
	fileType := utils.GetFileType(path)

	var (
		count int
		err   error
	)
	switch fileType {
	case "json":
		count, err = WriteJSON(path, rows)
	default:
		count, err = WriteCSV(path, rows)
	}

	result := ExportResult{
		Type:        fileType,
		Path:        path,
		RecordCount: count,
		Success:     err == nil,
		ExportedAt:  time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		obs.Logger.Error("export failed", "stage", "export", "path", path, "error", err)
		return result
	}
	if size, serr := utils.GetFileSize(path); serr == nil {
		result.FileSize = size
	}
	obs.Logger.Info("export written", "stage", "export", "path", path, "type", fileType, "rows", count, "bytes", result.FileSize)
	return result
}

// WriteCSV writes the header and one line per row. Lines end with CRLF.
func WriteCSV(path string, rows []model.Row) (int, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create csv file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.UseCRLF = true

	if err := writer.Write(model.CSVHeader); err != nil {
		return 0, errors.Wrap(err, "write header")
	}

	count := 0
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return count, errors.Wrap(err, "write row")
		}
		count++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, errors.Wrap(err, "flush csv")
	}
	return count, file.Close()
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(path string, rows []model.Row) (int, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create json file")
	}
	defer file.Close()

	if rows == nil {
		rows = []model.Row{}
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(rows); err != nil {
		return 0, errors.Wrap(err, "encode json")
	}
	return len(rows), file.Close()
}
