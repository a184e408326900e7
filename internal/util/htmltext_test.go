package util

import "testing"

func TestHTMLToText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just words", "just words"},
		{"tags", "<p>Hello <b>bold</b> world</p>", "Hello bold world"},
		{"script skipped", "before<script>alert(1)</script>after", "before after"},
		{"style skipped", "<style>p{color:red}</style>text", "text"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTMLToText(tc.in); got != tc.want {
				t.Fatalf("HTMLToText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
