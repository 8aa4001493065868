package batch

import (
	"encoding/json"
	"os"
)

// ReportEntry represents one image in the run report.
type ReportEntry struct {
	Name          string  `json:"name"`
	Resolution    int     `json:"resolution"`
	Distance      float64 `json:"distance,omitempty"`
	Output        string  `json:"output,omitempty"`
	BackupCreated bool    `json:"backup_created"`
	Success       bool    `json:"success"`
	Error         string  `json:"error,omitempty"`
}

// WriteReport writes the outcome of a run as JSON to path. The report is
// meant to live outside the save directory.
func WriteReport(path string, results []Result) error {
	entries := make([]ReportEntry, len(results))
	for i, r := range results {
		entries[i] = ReportEntry{
			Name:          r.Name,
			Resolution:    r.Resolution,
			Distance:      r.Distance,
			Output:        r.OutputPath,
			BackupCreated: r.BackupCreated,
			Success:       r.Success,
			Error:         r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
