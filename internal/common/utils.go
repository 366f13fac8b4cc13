package common

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)
	urlPattern          = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9.]*[a-zA-Z0-9](:[0-9]+)?(/[^\s]*)?$`)
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// IsURL reports whether source names an http(s) document rather than a file.
func IsURL(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") ||
		markdownLinkPattern.MatchString(strings.TrimSpace(source))
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown artifacts.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	trailingChars := []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailingChars {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateURL sanitizes rawURL and reports whether the result is a usable
// http(s) URL.
func ValidateURL(rawURL string) (string, bool) {
	cleaned := SanitizeURL(rawURL)
	if cleaned == "" || strings.Contains(cleaned, " ") {
		return "", false
	}
	if !urlPattern.MatchString(cleaned) {
		return "", false
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return "", false
	}
	return cleaned, true
}

// SanitizeSources cleans every source and returns (usable sources, invalid sources).
// File paths are only trimmed; URLs must survive ValidateURL.
func SanitizeSources(sources []string) ([]string, []string) {
	sanitized := make([]string, 0, len(sources))
	var invalid []string

	for _, raw := range sources {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if !IsURL(raw) {
			sanitized = append(sanitized, strings.TrimSpace(raw))
			continue
		}
		cleaned, ok := ValidateURL(raw)
		if !ok {
			invalid = append(invalid, raw)
			continue
		}
		sanitized = append(sanitized, cleaned)
	}

	return sanitized, invalid
}
