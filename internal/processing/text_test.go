package processing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain text", in: "  already   plain ", want: "already plain"},
		{name: "tags become word boundaries", in: "<p>Hello</p><p>World</p>", want: "Hello World"},
		{name: "line breaks", in: "<p>Line1<br>Line2</p>", want: "Line1 Line2"},
		{name: "entities decoded", in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "nbsp collapsed", in: "<p>A</p><p>&nbsp;</p><p>B</p>", want: "A B"},
		{name: "nested markup", in: "<div><b>bold</b> and <i>italic</i></div>", want: "bold and italic"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := StripHTML(tt.in)
			require.Equal(t, tt.want, got)
			require.NotContains(t, got, "<")
			require.NotContains(t, got, ">")
			require.NotContains(t, got, "  ")
		})
	}
}

func TestSoftTrim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short input untouched", in: "Hello world!", limit: 50, want: "Hello world!"},
		{name: "whitespace collapsed", in: "Hello \n\t world", limit: 50, want: "Hello world"},
		{name: "cut on word boundary", in: "The quick brown fox jumps", limit: 10, want: "The quick"},
		{name: "trailing punctuation stripped", in: "Hello, world, again and again", limit: 14, want: "Hello, world"},
		{name: "single long word cut raw", in: "abcdefghijklmno", limit: 5, want: "abcde"},
		{name: "multibyte runes", in: "héllo wörld again", limit: 7, want: "héllo"},
		{name: "zero limit", in: "anything", limit: 0, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SoftTrim(tt.in, tt.limit)
			require.Equal(t, tt.want, got)
			require.LessOrEqual(t, len([]rune(got)), tt.limit)
			require.Equal(t, got, SoftTrim(got, tt.limit), "must be idempotent")
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", Truncate("abc", 10))
	require.Equal(t, "abc", Truncate("abcdef", 3))
	require.Equal(t, "", Truncate("abc", 0))
	require.Equal(t, "éé", Truncate("ééé", 2))
}

func TestSanitizeField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "**Bold** pick", want: "Bold pick"},
		{in: "__also bold__", want: "also bold"},
		{in: "left — right", want: "left - right"},
		{in: `"Quoted headline"`, want: "Quoted headline"},
		{in: `  " padded "  `, want: "padded"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, SanitizeField(tt.in))
	}
}

func TestSanitizeTweet(t *testing.T) {
	t.Parallel()

	got := SanitizeTweet(`Check **this** out! #cool @handle "great"`)
	require.NotContains(t, got, "**")
	require.NotContains(t, got, "#cool")
	require.NotContains(t, got, "@handle")
	require.NotContains(t, got, `"`)
	require.Equal(t, "Check this out! great", got)
}

func TestSanitizeTweetDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "curly quotes removed", in: "“Smart” ‘quotes’", want: "Smart quotes"},
		{name: "leading hashtag", in: "#launch We shipped it", want: "We shipped it"},
		{name: "hashtag run", in: "Shipped #go #build today", want: "Shipped today"},
		{name: "mid-word hash kept", in: "Try C#sharp now", want: "Try C#sharp now"},
		{name: "em dash normalized", in: "fast — really fast", want: "fast - really fast"},
		{name: "only hashtags", in: "#a #b", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, SanitizeTweet(tt.in))
		})
	}
}

func TestCollapse(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a b c", Collapse(" a  b\n\tc "))
	require.Equal(t, "", Collapse("  \n "))
	require.False(t, strings.Contains(Collapse("a   b"), "  "))
}
