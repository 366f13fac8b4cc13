package detector

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/finchunk/models"
	"github.com/dtnitsch/finchunk/pkg/normalizer"
)

// sniffLen is how much of the body DetectKind looks at.
const sniffLen = 8192

// languageSampleRunes bounds the text handed to the language detector.
const languageSampleRunes = 5000

// Metadata contains cheap signals about a filing. None of it feeds the
// statement locator; it is reported alongside the located chunks.
type Metadata struct {
	Kind       models.DocumentKind `json:"kind" yaml:"kind"`
	SourceType string              `json:"source_type" yaml:"source_type"` // file, sec, regulator, gov, web

	// Readability enrichment (html and mime only)
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName      string `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Byline        string `json:"byline,omitempty" yaml:"byline,omitempty"`
	Excerpt       string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	PublishedTime string `json:"published_time,omitempty" yaml:"published_time,omitempty"`

	// Language hint from lingua; informational only
	LanguageHint       string  `json:"language_hint,omitempty" yaml:"language_hint,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`

	// Filing signals
	FormType    string  `json:"form_type,omitempty" yaml:"form_type,omitempty"`
	FiscalYear  string  `json:"fiscal_year,omitempty" yaml:"fiscal_year,omitempty"`
	Currency    string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	FilingScore float64 `json:"filing_score" yaml:"filing_score"` // 0-10

	RuneCount int `json:"rune_count" yaml:"rune_count"`
	WordCount int `json:"word_count" yaml:"word_count"`
}

var htmlMarkers = [][]byte{
	[]byte("<html"), []byte("<body"), []byte("<table"), []byte("<div"), []byte("<p"),
}

// DetectKind classifies a raw document by its leading bytes.
func DetectKind(body []byte) models.DocumentKind {
	if bytes.HasPrefix(body, []byte("%PDF-")) {
		return models.KindPDF
	}

	head := body[:min(len(body), sniffLen)]
	if normalizer.IsMIME(string(head)) {
		return models.KindMIME
	}

	lower := bytes.ToLower(head)
	for _, marker := range htmlMarkers {
		if bytes.Contains(lower, marker) {
			return models.KindHTML
		}
	}

	return models.KindText
}

// KindFromContentType maps an HTTP Content-Type to a kind. ok is false when
// the type says nothing useful and the body must be sniffed.
func KindFromContentType(contentType string) (kind models.DocumentKind, ok bool) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "application/pdf"):
		return models.KindPDF, true
	case strings.HasPrefix(ct, "multipart/related"), strings.HasPrefix(ct, "message/rfc822"):
		return models.KindMIME, true
	}
	return "", false
}

// Detect picks the kind of doc from its Content-Type, falling back to the
// body.
func Detect(doc *models.Document) models.DocumentKind {
	if kind, ok := KindFromContentType(doc.ContentType); ok {
		return kind
	}
	return DetectKind(doc.Body)
}

// Analyze gathers metadata for doc. flatText is the normalized text the
// locator will see.
func Analyze(doc *models.Document, flatText string) *Metadata {
	md := &Metadata{
		Kind:       doc.Kind,
		SourceType: detectSourceType(doc.Source),
		RuneCount:  utf8.RuneCountInString(flatText),
		WordCount:  len(strings.Fields(flatText)),
	}

	switch doc.Kind {
	case models.KindHTML:
		md.readability(doc.Source, string(doc.Body))
	case models.KindMIME:
		md.readability(doc.Source, normalizer.ExtractHTML(string(doc.Body)))
	}

	md.LanguageHint, md.LanguageConfidence = LanguageHint(flatText)
	md.detectFilingSignals(flatText)

	return md
}

func (md *Metadata) readability(source, html string) {
	if strings.TrimSpace(html) == "" {
		return
	}

	pageURL, err := url.Parse(source)
	if err != nil || pageURL.Scheme == "" {
		pageURL = &url.URL{Scheme: "file", Path: source}
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), pageURL)
	if err != nil {
		return
	}

	md.Title = strings.TrimSpace(article.Title)
	md.SiteName = article.SiteName
	md.Byline = article.Byline
	md.Excerpt = article.Excerpt
	if article.PublishedTime != nil {
		md.PublishedTime = article.PublishedTime.Format("2006-01-02")
	}
}

var languageDetector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Spanish).
		Build()
})

// LanguageHint guesses between English and Spanish from a sample of text.
// It returns "" when lingua cannot decide.
func LanguageHint(text string) (string, float64) {
	sample := text
	if utf8.RuneCountInString(sample) > languageSampleRunes {
		sample = string([]rune(sample)[:languageSampleRunes])
	}
	if strings.TrimSpace(sample) == "" {
		return "", 0
	}

	detector := languageDetector()
	lang, ok := detector.DetectLanguageOf(sample)
	if !ok {
		return "", 0
	}
	return lang.IsoCode639_1().String(), detector.ComputeLanguageConfidence(sample, lang)
}

// detectSourceType classifies where a document came from
func detectSourceType(source string) string {
	u, err := url.Parse(source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "file"
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == "sec.gov" || strings.HasSuffix(host, ".sec.gov"):
		return "sec"
	case strings.HasSuffix(host, ".gov"):
		return "gov"
	}

	// Securities regulators and exchanges of Spanish-speaking markets
	regulators := []string{"cnmv.es", "bmv.com.mx", "cnbv.gob.mx", "smv.gob.pe", "cmfchile.cl", "supersociedades.gov.co", "cnv.gov.ar"}
	for _, domain := range regulators {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return "regulator"
		}
	}

	return "web"
}

var (
	formTypePattern   = regexp.MustCompile(`(?i)\bform\s+(10-K|10-Q|20-F|40-F|8-K|6-K)\b`)
	fiscalYearPattern = regexp.MustCompile(`(?i)(?:fiscal year ended|year ended|ejercicio terminado el|al 31 de diciembre de)[^\n]*?\b((?:19|20)\d{2})\b`)
)

var currencyMarkers = []struct {
	marker   string
	currency string
}{
	{"us$", "USD"},
	{"usd", "USD"},
	{"eur", "EUR"},
	{"€", "EUR"},
	{"pesos", "MXN/COP/CLP/ARS"},
	{"soles", "PEN"},
	{"$", "USD"},
}

// detectFilingSignals looks for the form type, fiscal year and reporting
// currency
func (md *Metadata) detectFilingSignals(text string) {
	if m := formTypePattern.FindStringSubmatch(text); len(m) > 1 {
		md.FormType = strings.ToUpper(m[1])
	}
	if m := fiscalYearPattern.FindStringSubmatch(text); len(m) > 1 {
		md.FiscalYear = m[1]
	}

	lower := strings.ToLower(text)
	for _, c := range currencyMarkers {
		if strings.Contains(lower, c.marker) {
			md.Currency = c.currency
			break
		}
	}

	score := 0.0
	if md.FormType != "" {
		score += 4.0
	}
	if md.FiscalYear != "" {
		score += 2.0
	}
	if md.Currency != "" {
		score += 1.0
	}
	if md.SourceType == "sec" || md.SourceType == "regulator" {
		score += 3.0
	}

	md.FilingScore = min(score, 10.0)
}
