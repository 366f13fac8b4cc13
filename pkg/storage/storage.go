package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// Report formats accepted by SaveReport.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	err := os.WriteFile(filePath, content, 0644)
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}

	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// SaveReport encodes report as json or yaml and writes it to
// dir/name.<format>. It returns the written path.
func (s *Storage) SaveReport(dir, name string, report any, format string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON, "":
		format = FormatJSON
		data, err = json.MarshalIndent(report, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(report)
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("error encoding %s report: %w", format, err)
	}

	path := filepath.Join(dir, name+"."+format)
	if err := s.SaveFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
