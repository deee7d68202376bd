package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/resume-analyzer/internal/analyzer"
)

// Dump is the exported form of a fetched history page.
type Dump struct {
	Stats    *analyzer.Stats          `json:"stats,omitempty"`
	Analyses []*analyzer.HistoryEntry `json:"analyses"`
}

// ToFile writes the dump to path, choosing the format from the extension.
// An empty path writes JSON to a new temporary file. The written path is returned.
func ToFile(dump *Dump, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DumpToTmpFile(dump)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return path, ToExcel(dump, path)
	case ".json":
		return path, ToJSON(dump, path)
	default:
		return "", fmt.Errorf("unsupported export format %q: use .json or .xlsx", filepath.Ext(path))
	}
}

func DumpToTmpFile(dump *Dump) (string, error) {
	file, err := os.CreateTemp("", "analyses_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := encode(file, dump); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func ToJSON(dump *Dump, path string) error {
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer file.Close()

	return encode(file, dump)
}

func encode(file *os.File, dump *Dump) error {
	if dump.Analyses == nil {
		dump.Analyses = []*analyzer.HistoryEntry{}
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
