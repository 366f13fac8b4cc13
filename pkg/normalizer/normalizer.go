// Package normalizer flattens raw filings (MIME exports, HTML, plain text)
// into readable text for statement search.
package normalizer

// Normalize converts a raw MIME, HTML or plain-text document into a single
// flat string. It never fails: missing or unusable input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	if IsMIME(text) {
		return processContent(ExtractHTML(text))
	}

	return processContent(text)
}
