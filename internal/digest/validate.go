package digest

import (
	"regexp"
	"strings"
)

var reEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail is a shape check only; it does not resolve the domain.
func ValidEmail(addr string) bool {
	return reEmail.MatchString(strings.TrimSpace(addr))
}
