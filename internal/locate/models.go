package locate

import (
	"github.com/dtnitsch/finchunk/pkg/detector"
	"github.com/dtnitsch/finchunk/pkg/locator"
)

type Job struct {
	Source string
}

// Report is the per-document file written to the output directory.
type Report struct {
	RunID      string             `json:"run_id" yaml:"run_id"`
	BatchID    string             `json:"batch_id" yaml:"batch_id"`
	Source     string             `json:"source" yaml:"source"`
	Period     string             `json:"period" yaml:"period"`
	Pages      []string           `json:"pages,omitempty" yaml:"pages,omitempty"`
	Metadata   *detector.Metadata `json:"metadata" yaml:"metadata"`
	Statements *locator.Output    `json:"statements" yaml:"statements"`
}

// Error types recorded in the manifest.
const (
	ErrorTypeLoad       = "load_error"
	ErrorTypeExtract    = "extract_error"
	ErrorTypePreprocess = "preprocess_error"
	ErrorTypeSave       = "save_error"
)
