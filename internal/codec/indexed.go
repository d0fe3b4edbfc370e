// Package codec converts between numbered text blocks and IndexedLine records.
//
// The wire format is a sequence of blocks separated by blank lines. Each block
// starts with a line holding only an integer index, followed by the text lines
// of that record:
//
//	1
//	first line
//
//	2
//	second line
//
// The same format is used to build prompts and to parse backend responses.
package codec

import (
	"bufio"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// IndexedLine is one numbered unit of source material. Text may span several lines.
type IndexedLine struct {
	Index int
	Text  string
}

var indexLine = regexp.MustCompile(`^\s*(\d+)\s*$`)

// Encode renders lines in the numbered block format.
func Encode(lines []IndexedLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strconv.Itoa(l.Index))
		b.WriteByte('\n')
		b.WriteString(l.Text)
	}
	return b.String()
}

// Decode lazily parses text in the numbered block format.
//
// Lines before the first index line are dropped. Two consecutive index lines
// produce a record with empty text. Blank lines that separate a record from
// the next index line are not part of the record's text.
func Decode(text string) iter.Seq[IndexedLine] {
	return func(yield func(IndexedLine) bool) {
		sc := bufio.NewScanner(strings.NewReader(text))
		sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)

		open := false
		var cur IndexedLine
		var buf []string

		flush := func() bool {
			cur.Text = strings.Join(trimTrailingBlank(buf), "\n")
			return yield(cur)
		}

		for sc.Scan() {
			line := strings.TrimSuffix(sc.Text(), "\r")
			if m := indexLine.FindStringSubmatch(line); m != nil {
				idx, err := strconv.Atoi(m[1])
				if err == nil {
					if open && !flush() {
						return
					}
					open = true
					cur = IndexedLine{Index: idx}
					buf = buf[:0]
					continue
				}
			}
			if open {
				buf = append(buf, line)
			}
		}
		if open {
			flush()
		}
	}
}

// DecodeAll parses text eagerly.
func DecodeAll(text string) []IndexedLine {
	out := []IndexedLine{}
	for l := range Decode(text) {
		out = append(out, l)
	}
	return out
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
