package subtitles

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ChamsBouzaiene/subtrans/internal/codec"
)

const sample = `1
00:00:01,000 --> 00:00:02,500
Hello there.

2
00:00:03,000 --> 00:00:05,000
How are you?
Fine, thanks.

3
00:00:06,000 --> 00:00:07,000
Bye.
`

func TestLines(t *testing.T) {
	f, err := ReadSRT(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadSRT() error = %v", err)
	}
	want := []codec.IndexedLine{
		{Index: 1, Text: "Hello there."},
		{Index: 2, Text: "How are you?\nFine, thanks."},
		{Index: 3, Text: "Bye."},
	}
	if got := f.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %#v, want %#v", got, want)
	}
	if f.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.Len())
	}
}

func TestApplyAndWrite(t *testing.T) {
	f, err := ReadSRT(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	n := f.Apply([]codec.IndexedLine{
		{Index: 2, Text: "Comment ça va ?\nBien, merci."},
		{Index: 9, Text: "ignored"},
		{Index: 0, Text: "ignored"},
	})
	if n != 1 {
		t.Errorf("Apply() = %d, want 1", n)
	}

	var buf bytes.Buffer
	if err := f.WriteSRT(&buf); err != nil {
		t.Fatalf("WriteSRT() error = %v", err)
	}
	out := buf.String()
	for _, s := range []string{"Hello there.", "Comment ça va ?\nBien, merci.", "00:00:03,000 --> 00:00:05,000", "Bye."} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "How are you?") {
		t.Error("original text still present after Apply")
	}
}

func TestOpenWriteRoundTrip(t *testing.T) {
	f, err := ReadSRT(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.srt")
	if err := f.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !reflect.DeepEqual(reopened.Lines(), f.Lines()) {
		t.Errorf("round trip lines = %#v, want %#v", reopened.Lines(), f.Lines())
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.srt")); err == nil {
		t.Error("Open() error = nil for missing file")
	}
}
