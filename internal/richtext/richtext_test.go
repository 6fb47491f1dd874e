package richtext

import "testing"

func TestPlainTextStripsTags(t *testing.T) {
	got := PlainText("<p>Once upon a <strong>time</strong></p><p>there was.</p>")
	if got != "Once upon a time there was." {
		t.Fatalf("plain = %q", got)
	}
}

func TestPlainTextDropsScriptAndStyle(t *testing.T) {
	got := PlainText("<style>p{color:red}</style><p>hi</p><script>alert(1)</script>")
	if got != "hi" {
		t.Fatalf("plain = %q", got)
	}
}

func TestPlainTextPassesThroughBareText(t *testing.T) {
	if got := PlainText("just   words\nhere"); got != "just words here" {
		t.Fatalf("plain = %q", got)
	}
}

func TestWordCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"<p></p>", 0},
		{"<p>one two three</p>", 3},
		{"<h1>Title</h1><p>body text</p>", 3},
		{"plain words only", 3},
	}
	for _, tc := range cases {
		if got := WordCount(tc.in); got != tc.want {
			t.Errorf("WordCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
