package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"jobfinder-engine/internal/domain"
)

const (
	DescriptionLimit = 300
	Ellipsis         = "..."
)

var reTags = regexp.MustCompile(`<[^>]+>`)

// CleanText collapses every whitespace run (including NBSP) to one space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripTags removes anything that looks like a markup tag.
func StripTags(s string) string {
	return reTags.ReplaceAllString(s, "")
}

// Truncate cuts s to max runes and appends the ellipsis marker when it cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + Ellipsis
}

func FormatDescription(desc string) string {
	if strings.TrimSpace(desc) == "" {
		return domain.NoDescription
	}
	clean := CleanText(StripTags(desc))
	if clean == "" {
		return domain.NoDescription
	}
	return Truncate(clean, DescriptionLimit)
}

// FormatLocation joins the non-empty parts and appends "Remote" for remote
// postings.
func FormatLocation(remote bool, parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if remote {
		out = append(out, "Remote")
	}
	if len(out) == 0 {
		return domain.NotSpecified
	}
	return strings.Join(out, ", ")
}

func FormatJobType(employmentType string, remote bool) string {
	var out []string
	if t := strings.TrimSpace(employmentType); t != "" {
		out = append(out, TitleCase(t))
	}
	if remote {
		out = append(out, "Remote")
	}
	if len(out) == 0 {
		return domain.NotSpecified
	}
	return strings.Join(out, ", ")
}

// TitleCase upper-cases the first letter of every letter run and lower-cases
// the rest, so "FULLTIME" becomes "Fulltime" and "part-time" "Part-Time".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}
