// Package comments cleans documentation comments and resolves the
// leading-comment conventions that differ between languages: C-style
// block and slash runs, hash runs, and string-literal docstrings.
package comments

import (
	"regexp"
	"strings"
)

// StripCStyleDelimiters removes /* */, //, /// and leading * decoration
// from a comment, line by line, leaving only the documentation text.
func StripCStyleDelimiters(comment string) string {
	lines := strings.Split(comment, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimLeft(l, " \t")
		if strings.HasSuffix(l, " */") {
			l = l[:len(l)-3]
		} else if strings.HasSuffix(l, "*/") {
			l = l[:len(l)-2]
		}
		switch {
		case strings.HasPrefix(l, "* "):
			l = l[2:]
		case strings.HasPrefix(l, "/**"):
			l = l[3:]
		case strings.HasPrefix(l, "/*"):
			l = l[2:]
		case strings.HasPrefix(l, "///"):
			l = l[3:]
		case strings.HasPrefix(l, "//"):
			l = l[2:]
		case strings.HasPrefix(l, "*"):
			l = l[1:]
		}
		cleaned = append(cleaned, l)
	}
	return strings.Join(cleaned, "\n")
}

// StripHashDocstring cleans a Python/Ruby docstring: surrounding quote
// characters, per-line leading hash marks, then common indentation.
func StripHashDocstring(doc string) string {
	doc = strings.Trim(doc, ` "'`+"\t\n")
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimLeft(l, "#")
	}
	return Dedent(strings.Join(lines, "\n"))
}

// Dedent removes the longest common leading whitespace from every
// non-blank line.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	margin := ""
	first := true
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, margin) {
			margin = margin[:len(margin)-1]
		}
	}
	if margin == "" {
		return s
	}
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines[i] = strings.TrimPrefix(l, margin)
	}
	return strings.Join(lines, "\n")
}

var (
	leadingHashRe   = regexp.MustCompile(`^([ \t]*#.*\n)*\n*([ \t]*#.*\n)*\n*`)
	leadingBlockRe  = regexp.MustCompile(`(?s)^\/\*+.*?\*\/\n*`)
	leadingSlashRe  = regexp.MustCompile(`^([ \t]*//.*\n)*\n*`)
	licenseMarkerRe = regexp.MustCompile(`(?i)license|copyright`)
)

// LeadingComment returns the comment block at the very top of text, or ""
// when the file does not open with a comment.
func LeadingComment(text string) string {
	for _, re := range []*regexp.Regexp{leadingBlockRe, leadingSlashRe, leadingHashRe} {
		if loc := re.FindStringIndex(text); loc != nil && loc[1] > 0 {
			return text[:loc[1]]
		}
	}
	return ""
}

// StripLicense removes a license header from the top of a file. It returns
// the remaining text and the removed header; when no license-looking
// comment leads the file, the input comes back unchanged with an empty
// header.
func StripLicense(text string) (rest, license string) {
	leading := LeadingComment(text)
	if licenseMarkerRe.MatchString(leading) {
		return text[len(leading):], text[:len(leading)]
	}
	return text, ""
}
