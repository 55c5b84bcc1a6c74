package app

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// Two or more value tuples, as emitted by the chunked enrichment upsert.
	queryValuesListRegex = regexp.MustCompile(`(?i)VALUES \([^()]*\)(?:, ?\([^()]*\))+`)
)

// formatDBQueryForTrace keeps span statements short enough to read. Multi-row VALUES lists
// shrink to their first tuple plus a row count so the ON CONFLICT clause survives truncation.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = queryValuesListRegex.ReplaceAllStringFunc(normalized, collapseValuesList)
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func collapseValuesList(list string) string {
	first := list[strings.Index(list, "(") : strings.Index(list, ")")+1]
	rows := strings.Count(list, "(")
	return "VALUES " + first + " /* " + strconv.Itoa(rows) + " rows */"
}
