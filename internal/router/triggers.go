package router

import (
	"strings"
	"unicode"
)

// triggerWords mark a message as worth keeping in memory.
var triggerWords = map[string]struct{}{
	"remember":  {},
	"note":      {},
	"important": {},
	"save":      {},
	"store":     {},
}

// hasTriggerWord reports whether s contains a trigger word as a whole word,
// ignoring case. "notes" and "storeroom" do not match.
func hasTriggerWord(s string) bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if _, ok := triggerWords[w]; ok {
			return true
		}
	}
	return false
}
