package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// itemNamePattern finds an upper-case name followed by a price or quantity.
// Names may wrap across lines, which is how tax flags like "F" leak into them.
var itemNamePattern = regexp.MustCompile(`([\p{Lu}\s/]+)\s(\d+(?:\.\d+)?)`)

// ocrFlagPattern matches the tax flag the printer puts after a price
var ocrFlagPattern = regexp.MustCompile(`\bF\s`)

// multiBuyToken shows up in lines like "2 FOR 3.00" and is never an item
const multiBuyToken = "FOR"

// interval is the raw text attributed to one item occurrence
type interval struct {
	name string
	raw  string
}

// segmentItems splits the item span into one interval per detected item name.
// Each interval runs from the end of its name to the start of the next one, so a
// name printed twice is cut out at each of its positions.
func segmentItems(span string) []interval {
	type found struct {
		name       string
		start, end int
	}
	var names []found
	for _, m := range itemNamePattern.FindAllStringSubmatchIndex(span, -1) {
		group := span[m[2]:m[3]]
		name := strings.TrimSpace(group)
		if name == "" || isMultiBuyToken(name) {
			continue
		}
		start := m[2] + len(group) - len(strings.TrimLeftFunc(group, unicode.IsSpace))
		names = append(names, found{name: name, start: start, end: start + len(name)})
	}
	if len(names) == 0 {
		return nil
	}

	out := make([]interval, len(names))
	for i, n := range names {
		stop := len(span)
		if i+1 < len(names) {
			stop = names[i+1].start
		}
		out[i] = interval{name: n.name, raw: span[n.end:stop]}
	}
	return out
}

// isMultiBuyToken also catches the token behind a wrapped tax flag, as in "F\nFOR"
func isMultiBuyToken(name string) bool {
	return name == multiBuyToken || itemKey(name) == strings.ToLower(multiBuyToken)
}

// itemKey normalizes a segmented name into the key used in Document.Items
func itemKey(name string) string {
	name = ocrFlagPattern.ReplaceAllString(name, "")
	return strings.ToLower(strings.TrimSpace(name))
}
