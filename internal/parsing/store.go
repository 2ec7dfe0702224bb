package parsing

import (
	"regexp"
	"strings"
)

var (
	storeNamePattern    = regexp.MustCompile(`Publix`)
	storeAddressPattern = regexp.MustCompile(`Emory Commons\s*\d+ [A-Za-z\s]+,\s*[A-Za-z]+\s*\d+`)
	storeManagerPattern = regexp.MustCompile(`Store Manager:\s*([A-Za-z \t]+)`)
	phonePattern        = regexp.MustCompile(`\d{3}-\d{3}-\d{4}`)
)

// extractStore matches the store header fields independently of each other.
// headerEnd is the offset just past the printed phone number, which is where the
// item list begins; ok is false when no phone number was found.
func extractStore(text string) (info StoreInfo, headerEnd int, ok bool) {
	info = unknownStore()

	if storeNamePattern.MatchString(text) {
		info.Name = "Publix"
	}
	if loc := storeAddressPattern.FindString(text); loc != "" {
		info.Location = loc
	}
	if m := storeManagerPattern.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			info.StoreManager = name
		}
	}
	if loc := phonePattern.FindStringIndex(text); loc != nil {
		info.Phone = text[loc[0]:loc[1]]
		return info, loc[1], true
	}
	return info, 0, false
}
