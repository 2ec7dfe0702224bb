package parsing

import (
	"strings"
)

// headerLines is how many non-empty lines are searched for a store name
const headerLines = 10

// knownStores are matched against lower-cased header lines, in order
var knownStores = []string{"publix", "kroger"}

// Strategy is the result of Classify: either PublixStrategy or GenericStrategy
type Strategy interface {
	strategy()
}

// PublixStrategy means the text can go through Parser.Parse
type PublixStrategy struct {
	Text string
}

// GenericStrategy means the text needs entity analysis. StoreLine is the header
// line that named a known store, or empty when none did.
type GenericStrategy struct {
	Text      string
	StoreLine string
}

func (PublixStrategy) strategy()  {}
func (GenericStrategy) strategy() {}

// Classify picks the parsing strategy from the receipt header
func Classify(text string) Strategy {
	storeLine := findStoreLine(text)
	if strings.Contains(storeLine, "publix") {
		return PublixStrategy{Text: text}
	}
	return GenericStrategy{Text: text, StoreLine: storeLine}
}

func findStoreLine(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		for _, store := range knownStores {
			if strings.Contains(line, store) {
				return line
			}
		}
		seen++
		if seen == headerLines {
			break
		}
	}
	return ""
}
