package report

import "strings"

// throwawayComments are answers to the comment prompt that carry no
// feedback. Compared case-insensitively after trimming.
var throwawayComments = map[string]bool{
	"":               true,
	".":              true,
	"none":           true,
	"n/a":            true,
	"nope":           true,
	"negative":       true,
	"nothing yet":    true,
	"nothing":        true,
	"nothing.":       true,
	"nothing so far": true,
	"none so far":    true,
	"none for now":   true,
}

// FilterComments drops throwaway answers and keeps the rest in order.
func FilterComments(comments []string) []string {
	var kept []string
	for _, c := range comments {
		if throwawayComments[strings.ToLower(strings.TrimSpace(c))] {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
