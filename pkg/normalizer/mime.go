package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// mimeSniffLen bounds how much of a document is inspected for MIME headers.
const mimeSniffLen = 8192

var (
	boundaryPattern = regexp.MustCompile(`(?i)boundary="([^"]+)"`)
	charsetPattern  = regexp.MustCompile(`(?i)charset="?([^";\s]+)`)
)

// IsMIME reports whether content looks like a MIME multipart message.
// Only the first 8 KiB are inspected.
func IsMIME(content string) bool {
	head := content
	if len(head) > mimeSniffLen {
		head = head[:mimeSniffLen]
	}
	head = strings.ToLower(head)
	return strings.Contains(head, "mime-version: 1.0") &&
		strings.Contains(head, "content-type: multipart/")
}

// ExtractHTML pulls every text/html part out of a multipart message and
// concatenates their bodies, newline separated. Quoted-printable parts are
// decoded, then every part is converted to UTF-8 from its declared charset.
// A message without a boundary yields "".
func ExtractHTML(content string) string {
	m := boundaryPattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(content, "--"+m[1]) {
		lower := strings.ToLower(part)
		if !strings.Contains(lower, "content-type: text/html") {
			continue
		}

		body := partBody(part)
		header := part[:len(part)-len(body)]
		if strings.Contains(lower, "content-transfer-encoding: quoted-printable") {
			body = DecodeQuotedPrintable(body)
		}
		b.WriteString(toUTF8(body, partCharset(header)))
		b.WriteString("\n")
	}
	return b.String()
}

// partBody returns what follows the header block of a MIME part. CRLF
// separators win over bare LF ones; a part with no blank line is all body.
func partBody(part string) string {
	if i := strings.Index(part, "\r\n\r\n"); i != -1 {
		return part[i+4:]
	}
	if i := strings.Index(part, "\n\n"); i != -1 {
		return part[i+2:]
	}
	return part
}

// DecodeQuotedPrintable decodes =XX escapes, then drops soft line breaks.
// The result holds raw bytes in the part's charset. Malformed escapes are
// copied through untouched.
func DecodeQuotedPrintable(input string) string {
	if !strings.Contains(input, "=") {
		return input
	}

	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == '=' && i+2 < len(input) && isHex(input[i+1]) && isHex(input[i+2]) {
			out = append(out, unhex(input[i+1])<<4|unhex(input[i+2]))
			i += 2
			continue
		}
		out = append(out, c)
	}

	decoded := strings.ReplaceAll(string(out), "=\r\n", "")
	return strings.ReplaceAll(decoded, "=\n", "")
}

func partCharset(header string) string {
	if m := charsetPattern.FindStringSubmatch(header); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// toUTF8 converts body from charset. Bodies in an unknown charset that are
// not valid UTF-8 are read as Windows-1252.
func toUTF8(body, charset string) string {
	if enc, err := htmlindex.Get(charset); err == nil && !isUTF8(enc) {
		if s, err := enc.NewDecoder().String(body); err == nil {
			return s
		}
	}
	if utf8.ValidString(body) {
		return body
	}
	s, _ := charmap.Windows1252.NewDecoder().String(body)
	return s
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == unicode.UTF8 || enc == encoding.Nop
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
