// export/file.go
package export

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// OutputPath returns <dataDir>/<Airline_Full_Name>/<AIRLINE>-<AIRPORT>.<format>.
func OutputPath(dataDir string, codes config.CodeTables, airline, airport, format string) (string, error) {
	name, ok := codes.AirlineName(airline)
	if !ok {
		return "", fmt.Errorf("no directory name for airline %s", airline)
	}
	return filepath.Join(dataDir, name, fmt.Sprintf("%s-%s.%s", airline, airport, format)), nil
}

// Encode serializes the dataset in the given format.
func Encode(dataset *models.MergedDataset, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, dataset)
	case FormatJSON:
		err = WriteJSON(&buf, dataset)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDatasetFile encodes the dataset and overwrites its output file, creating the
// airline directory as needed. Nothing touches the disk if encoding fails.
func WriteDatasetFile(cfg config.OutputConfig, codes config.CodeTables, dataset *models.MergedDataset) (string, error) {
	path, err := OutputPath(cfg.DataDir, codes, dataset.Airline, dataset.Airport, cfg.Format)
	if err != nil {
		return "", err
	}
	data, err := Encode(dataset, cfg.Format)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Printf("Export: Wrote %d months for %s-%s to %s\n", len(dataset.Months), dataset.Airline, dataset.Airport, path)
	return path, nil
}
