package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entity is a named entity and the literal it decodes to.
type Entity struct {
	Encoded string
	Literal string
}

// NamedEntities is the fixed decode table, applied one entry at a time in
// this order. Text produced by an entry is seen by the entries after it, so
// "&amp;lt;" decodes to "<". Longer nbsp variants come first so they win
// over the plain form.
var NamedEntities = []Entity{
	{"&quot;", `"`},
	{"&apos;", "'"},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&#160;", " "},
	{"&nbsp;&nbsp;", " "},
	{"&nbsp;nbsp;", " "},
	{"&nbsp;", " "},
	{"&#8217;", "'"},
}

var (
	decimalRefPattern = regexp.MustCompile(`&#(\d+);`)
	hexRefPattern     = regexp.MustCompile(`&#[xX]([0-9a-fA-F]+);`)
)

// DecodeEntities replaces the named entity table, then decimal and
// hexadecimal character references. References that do not name a valid
// code point are left as they are.
func DecodeEntities(input string) string {
	if !strings.Contains(input, "&") {
		return input
	}

	out := input
	for _, e := range NamedEntities {
		out = strings.ReplaceAll(out, e.Encoded, e.Literal)
	}
	out = decodeRefs(out, decimalRefPattern, 10)
	return decodeRefs(out, hexRefPattern, 16)
}

func decodeRefs(input string, pattern *regexp.Regexp, base int) string {
	return pattern.ReplaceAllStringFunc(input, func(ref string) string {
		digits := pattern.FindStringSubmatch(ref)[1]
		n, err := strconv.ParseInt(digits, base, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return ref
		}
		return string(rune(n))
	})
}
