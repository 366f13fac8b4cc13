package models

// DocumentKind selects the extractor used to flatten a raw document.
type DocumentKind string

const (
	KindMIME DocumentKind = "mime"
	KindHTML DocumentKind = "html"
	KindText DocumentKind = "text"
	KindPDF  DocumentKind = "pdf"
)

// Document is a raw filing as loaded from disk or fetched over HTTP.
type Document struct {
	Source      string
	Body        []byte
	ContentType string // from the HTTP response, empty for files
	Kind        DocumentKind
}
