package manifest

// SummaryManifest represents the structure of the summary JSON file.
// It gives an overview of a locate batch: which documents succeeded, the
// language chosen for each and how strongly each statement matched.
type SummaryManifest struct {
	GeneratedAt    string            `json:"generated_at"`
	BatchID        string            `json:"batch_id"`
	Period         string            `json:"period"`
	TotalDocuments int               `json:"total_documents"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	Languages      map[string]int    `json:"languages"`
	TopIndicators  []string          `json:"top_indicators"`
	Results        []DocumentSummary `json:"results"`
}

// DocumentSummary represents summary information for a single document.
type DocumentSummary struct {
	Source       string           `json:"source"`
	RunID        string           `json:"run_id,omitempty"`
	Kind         string           `json:"kind,omitempty"`
	Title        string           `json:"title,omitempty"`
	ReportPath   string           `json:"report_path,omitempty"`
	Status       string           `json:"status"` // "success" or "error"
	ErrorType    string           `json:"error_type,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	SizeBytes    int64            `json:"size_bytes,omitempty"`
	ReportBytes  int64            `json:"report_bytes,omitempty"`
	Cached       bool             `json:"cached,omitempty"`
	Language     string           `json:"language,omitempty"`
	TopHits      map[string]int   `json:"top_hits,omitempty"` // statement -> first_unique_hits
	Units        map[string]int64 `json:"units,omitempty"`
}
