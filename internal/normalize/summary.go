// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// summaryDelimiter separates the author, venue and host parts of a Google
// Scholar summary line.
const summaryDelimiter = " - "

// yearPattern matches a standalone 19xx or 20xx token. Other four-digit
// numbers (volumes, pages) are ignored.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ParseSummary extracts authors, year and venue from a citation summary line
// such as "A Vaswani, N Shazeer - Advances in neural information processing
// systems, 2017 - proceedings.neurips.cc". Parts that cannot be determined
// are returned as types.Unknown.
//
// A line without the delimiter is returned whole as the authors. The first
// year-like token wins, so a venue that itself contains a year (e.g.
// "Proceedings of ICML 2016, 2017") yields the earlier one.
func ParseSummary(line string) (authors, year, venue string) {
	if !types.IsKnown(line) {
		return types.Unknown, types.Unknown, types.Unknown
	}

	defer func() {
		if recover() != nil {
			authors, year, venue = line, types.Unknown, types.Unknown
		}
	}()

	parts := strings.Split(line, summaryDelimiter)
	if len(parts) < 2 {
		return line, types.Unknown, types.Unknown
	}

	authors = strings.TrimSpace(parts[0])
	year, venue = types.Unknown, types.Unknown

	remaining := strings.Join(parts[1:], summaryDelimiter)
	if loc := yearPattern.FindStringIndex(remaining); loc != nil {
		year = remaining[loc[0]:loc[1]]
		v := strings.TrimSpace(remaining[:loc[0]])
		v = strings.TrimSpace(strings.TrimRight(v, ","))
		if v != "" {
			venue = v
		}
	} else {
		venue = strings.TrimSpace(parts[1])
	}

	if authors == "" {
		authors = types.Unknown
	}
	if venue == "" {
		venue = types.Unknown
	}
	return authors, year, venue
}
