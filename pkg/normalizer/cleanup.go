package normalizer

import (
	"regexp"
	"strings"
)

const (
	tableStart = "Table:"
	tableEnd   = "End of table"

	// maxNewlines is the longest run of newlines kept in the output.
	maxNewlines = 2
)

var numberPattern = regexp.MustCompile(`-?(\d+(\.\d*)?|\.\d+)`)

func postprocess(input string) string {
	if input == "" {
		return ""
	}
	return CleanOutput(DecodeEntities(input))
}

// CleanOutput collapses newline runs and drops "Table: ... End of table"
// blocks holding fewer than two numbers. Layout tables with no figures in
// them are noise for statement search.
func CleanOutput(input string) string {
	if input == "" {
		return ""
	}

	c := &collapser{}
	c.out.Grow(len(input))

	pos, lastPos := 0, 0
	for {
		idx := strings.Index(input[pos:], tableStart)
		if idx == -1 {
			break
		}
		pos += idx

		c.append(input[lastPos:pos])
		lastPos = pos

		endIdx := strings.Index(input[pos:], tableEnd)
		if endIdx == -1 {
			break
		}
		end := pos + endIdx + len(tableEnd)

		section := input[pos:end]
		if CountNumbers(section) > 1 {
			c.append(section)
		}

		pos = end
		lastPos = pos
	}

	if lastPos < len(input) {
		c.append(input[lastPos:])
	}

	return c.out.String()
}

// CountNumbers counts signed integer and decimal tokens in text.
func CountNumbers(text string) int {
	return len(numberPattern.FindAllStringIndex(text, -1))
}

// collapser appends text while capping newline runs. The run counter
// carries over between appended sections.
type collapser struct {
	out      strings.Builder
	newlines int
}

func (c *collapser) append(section string) {
	for i := 0; i < len(section); i++ {
		ch := section[i]
		if ch == '\n' {
			if c.newlines < maxNewlines {
				c.out.WriteByte('\n')
				c.newlines++
			}
			continue
		}
		c.out.WriteByte(ch)
		c.newlines = 0
	}
}
