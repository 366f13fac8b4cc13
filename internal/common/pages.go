package common

import (
	"github.com/dtnitsch/finchunk/pkg/pdftext"
	"github.com/urfave/cli/v2"
)

// PageArgs reads --pages, or --first and --last, into the page arguments
// pdftext expects. It returns nil when no page flag was given.
func PageArgs(c *cli.Context) []string {
	first, last := c.String("first"), c.String("last")
	if c.IsSet("pages") {
		first, last = pdftext.SplitPageSpec(c.String("pages"))
	}
	if first == "" && last == "" {
		return nil
	}
	return []string{first, last}
}
