package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/vask/internal/history"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset     = "\033[0m"
	colorUser      = "\033[1;34m" // bold blue
	colorAssist    = "\033[1;32m" // bold green
	colorDim       = "\033[2m"
	colorTimestamp = "\033[1;33m" // bold yellow
	colorBoldRed   = "\033[1;31m" // bold red for keyword highlights
)

// timestampRe matches a [MM:SS] marker: exactly two digits on each side.
var timestampRe = regexp.MustCompile(`\[[0-9]{2}:[0-9]{2}\]`)

// Highlight replaces every timestamp marker with wrap(marker). All other
// text, including any markup, is left untouched.
func Highlight(answer string, wrap func(string) string) string {
	return timestampRe.ReplaceAllStringFunc(answer, wrap)
}

// Markup wraps markers in the timestamp span used by the web page.
func Markup(answer string) string {
	return Highlight(answer, func(ts string) string {
		return `<span class="timestamp">` + ts + `</span>`
	})
}

// ANSI wraps markers in bold yellow escape codes.
func ANSI(answer string) string {
	return Highlight(answer, func(ts string) string {
		return colorTimestamp + ts + colorReset
	})
}

// Timestamps returns the markers in answer, in order of appearance.
func Timestamps(answer string) []string {
	return timestampRe.FindAllString(answer, -1)
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red
// ANSI codes. Timestamp markers are left whole so ANSI can still find them.
func highlightKeywords(text, query string) string {
	var terms []string
	for _, t := range strings.Fields(query) {
		if !fts5Operators[t] {
			terms = append(terms, regexp.QuoteMeta(t))
		}
	}
	if len(terms) == 0 {
		return text
	}
	re := regexp.MustCompile(`(?i)` + strings.Join(terms, "|"))
	mark := func(s string) string {
		return re.ReplaceAllStringFunc(s, func(m string) string {
			return colorBoldRed + m + colorReset
		})
	}

	var b strings.Builder
	last := 0
	for _, loc := range timestampRe.FindAllStringIndex(text, -1) {
		b.WriteString(mark(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(mark(text[last:]))
	return b.String()
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// Wrap breaks every line of text to fit within maxWidth visible columns.
func Wrap(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, maxWidth)...)
	}
	return strings.Join(out, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

type Options struct {
	Width int    // wrap width (0 = no wrap)
	Query string // keywords to highlight
}

// Conversation renders exchanges oldest first as question/answer pairs with
// highlighted timestamps.
func Conversation(exchanges []history.Exchange, opts Options) string {
	if len(exchanges) == 0 {
		return "(no exchanges)\n"
	}

	var b strings.Builder
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
		}
	}

	first := exchanges[0]
	writeLine(fmt.Sprintf("%s--- %s %s ---%s", colorDim, first.SessionID, first.VideoURL, colorReset))

	separator := colorDim + strings.Repeat("-", 50) + colorReset
	for i, ex := range exchanges {
		if i > 0 {
			writeLine(separator)
		}

		label := "ASK"
		if ex.FollowUp {
			label = "FOLLOW-UP"
		}
		writeLine(fmt.Sprintf("%s%s #%d >%s %s%s%s", colorUser, label, ex.ID, colorReset, colorDim, ex.AskedAt.Format("2006-01-02 15:04:05"), colorReset))
		for _, l := range strings.Split(indentLines(highlightKeywords(ex.Question, opts.Query), "  "), "\n") {
			writeLine(l)
		}

		writeLine(colorAssist + "ANSWER >" + colorReset)
		answer := ANSI(highlightKeywords(ex.Answer, opts.Query))
		for _, l := range strings.Split(indentLines(answer, "  "), "\n") {
			writeLine(l)
		}
		writeLine("")
	}

	return b.String()
}
