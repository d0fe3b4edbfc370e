// Package subtitles adapts subtitle files to the indexed lines the translator consumes.
package subtitles

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
)

// File is an opened subtitle document. Cue timings and styling are kept
// untouched; only text is read and replaced.
type File struct {
	subs *astisub.Subtitles
}

// Open reads a subtitle file. The format is chosen from the extension
// (.srt, .vtt, .ssa/.ass, .stl, .ttml).
func Open(path string) (*File, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitles %s: %w", path, err)
	}
	return &File{subs: subs}, nil
}

// ReadSRT parses SRT content from r.
func ReadSRT(r io.Reader) (*File, error) {
	subs, err := astisub.ReadFromSRT(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return &File{subs: subs}, nil
}

// Len returns the number of cues.
func (f *File) Len() int {
	return len(f.subs.Items)
}

// Lines returns one record per cue. Indices are 1-based cue positions, which is
// what SRT numbering uses.
func (f *File) Lines() []codec.IndexedLine {
	lines := make([]codec.IndexedLine, 0, len(f.subs.Items))
	for i, item := range f.subs.Items {
		lines = append(lines, codec.IndexedLine{Index: i + 1, Text: cueText(item)})
	}
	return lines
}

// Apply replaces cue text by index. Indices outside the document are logged and
// skipped. It returns the number of cues updated.
func (f *File) Apply(lines []codec.IndexedLine) int {
	applied := 0
	for _, line := range lines {
		pos := line.Index - 1
		if pos < 0 || pos >= len(f.subs.Items) {
			log.Printf("⚠️  Subtitle index %d out of range (1-%d), skipping", line.Index, len(f.subs.Items))
			continue
		}
		setCueText(f.subs.Items[pos], line.Text)
		applied++
	}
	return applied
}

// Write saves the document; the format is chosen from the extension.
func (f *File) Write(path string) error {
	if err := f.subs.Write(path); err != nil {
		return fmt.Errorf("write subtitles %s: %w", path, err)
	}
	return nil
}

// WriteSRT serializes the document as SRT.
func (f *File) WriteSRT(w io.Writer) error {
	return f.subs.WriteToSRT(w)
}

func cueText(item *astisub.Item) string {
	rows := make([]string, 0, len(item.Lines))
	for _, l := range item.Lines {
		var b strings.Builder
		for _, li := range l.Items {
			b.WriteString(li.Text)
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

// setCueText replaces the cue's lines. The first line item's style is reused.
func setCueText(item *astisub.Item, text string) {
	var style *astisub.StyleAttributes
	if len(item.Lines) > 0 && len(item.Lines[0].Items) > 0 {
		style = item.Lines[0].Items[0].InlineStyle
	}

	rows := strings.Split(text, "\n")
	lines := make([]astisub.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, astisub.Line{Items: []astisub.LineItem{{Text: row, InlineStyle: style}}})
	}
	item.Lines = lines
}
