package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

var wikilinkRe = regexp.MustCompile(`(!?)\[\[([^\[\]\|\n]+?)(?:\|([^\[\]\n]+?))?\]\]`)

// RewriteWikilinks converts [[target#heading|alias]] and ![[embed]] into
// CommonMark links. Fenced blocks, indented code and inline code spans are
// left untouched.
func RewriteWikilinks(body []byte) []byte {
	if !strings.Contains(string(body), "[[") {
		return body
	}

	lines := strings.SplitAfter(string(body), "\n")
	inCodeBlock := false
	activeFence := ""

	var out strings.Builder
	out.Grow(len(body))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			out.WriteString(line)
			continue
		case strings.HasPrefix(trimmed, "~~~"):
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			out.WriteString(line)
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			out.WriteString(line)
			continue
		}
		out.WriteString(rewriteOutsideCodeSpans(line))
	}
	return []byte(out.String())
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

func rewriteOutsideCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return wikilinkRe.ReplaceAllStringFunc(s, replaceWikilink)
	}

	var out strings.Builder
	for i := 0; i < len(s); {
		start := strings.IndexByte(s[i:], '`')
		if start < 0 {
			out.WriteString(wikilinkRe.ReplaceAllStringFunc(s[i:], replaceWikilink))
			break
		}
		out.WriteString(wikilinkRe.ReplaceAllStringFunc(s[i:i+start], replaceWikilink))
		i += start

		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		marker := strings.Repeat("`", run)
		closeRel := strings.Index(s[i+run:], marker)
		if closeRel < 0 {
			out.WriteString(s[i:])
			break
		}
		end := i + run + closeRel + run
		out.WriteString(s[i:end])
		i = end
	}
	return out.String()
}

func replaceWikilink(m string) string {
	parts := wikilinkRe.FindStringSubmatch(m)
	embed, target, alias := parts[1] == "!", strings.TrimSpace(parts[2]), strings.TrimSpace(parts[3])

	page, anchor, _ := strings.Cut(target, "#")
	page = strings.TrimSpace(page)
	label := alias
	if label == "" {
		label = target
		if page == "" {
			label = strings.TrimSpace(anchor)
		}
	}

	dest := page
	if anchor != "" {
		dest += "#" + HeadingAnchor(anchor)
	}
	if embed && isImage(page) {
		return "![" + label + "](<" + dest + ">)"
	}
	return "[" + label + "](<" + dest + ">)"
}

func isImage(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// HeadingAnchor approximates the id goldmark generates for a heading.
func HeadingAnchor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	return b.String()
}
