package codec

import (
	"reflect"
	"testing"
)

func TestEncode(t *testing.T) {
	got := Encode([]IndexedLine{{1, "a"}, {2, "b"}})
	if want := "1\na\n\n2\nb"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	if got := Encode(nil); got != "" {
		t.Errorf("Encode(nil) = %q, want empty", got)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []IndexedLine
	}{
		{
			name: "simple",
			in:   "1\na\n\n2\nb",
			want: []IndexedLine{{1, "a"}, {2, "b"}},
		},
		{
			name: "empty input",
			in:   "",
			want: []IndexedLine{},
		},
		{
			name: "leading noise dropped",
			in:   "Here is your translation:\n\n3\nhello",
			want: []IndexedLine{{3, "hello"}},
		},
		{
			name: "consecutive index lines",
			in:   "1\n2\nb",
			want: []IndexedLine{{1, ""}, {2, "b"}},
		},
		{
			name: "whitespace around index",
			in:   "  7 \nseven\n\n\t8\neight",
			want: []IndexedLine{{7, "seven"}, {8, "eight"}},
		},
		{
			name: "multi-line text",
			in:   "1\nfirst\nsecond\n\n2\nthird",
			want: []IndexedLine{{1, "first\nsecond"}, {2, "third"}},
		},
		{
			name: "crlf line endings",
			in:   "1\r\na\r\n\r\n2\r\nb\r\n",
			want: []IndexedLine{{1, "a"}, {2, "b"}},
		},
		{
			name: "digits inside text are not an index",
			in:   "1\nroom 101\n\n2\n3 apples",
			want: []IndexedLine{{1, "room 101"}, {2, "3 apples"}},
		},
		{
			name: "no index at all",
			in:   "just some text\nmore",
			want: []IndexedLine{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeAll(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeAll(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeIsLazy(t *testing.T) {
	var got []IndexedLine
	for l := range Decode("1\na\n\n2\nb\n\n3\nc") {
		got = append(got, l)
		if len(got) == 2 {
			break
		}
	}
	want := []IndexedLine{{1, "a"}, {2, "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("partial Decode = %#v, want %#v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	chunks := [][]IndexedLine{
		{{1, "a"}},
		{{1, "a"}, {2, "b"}},
		{{10, "multi\nline"}, {11, "x"}, {15, "gap in indices"}},
		{{1, "안녕하세요"}, {2, "こんにちは"}},
		{{4, "  leading spaces kept"}, {5, "trailing punctuation..."}},
	}
	for _, chunk := range chunks {
		got := DecodeAll(Encode(chunk))
		if !reflect.DeepEqual(got, chunk) {
			t.Errorf("round trip of %#v = %#v", chunk, got)
		}
	}
}
