package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "plain text", input: "Hello world", expected: "Hello world\n"},
		{name: "bold text", input: "**bold**", expected: "<strong>bold</strong>\n"},
		{name: "italic text", input: "*italic*", expected: "<em>italic</em>\n"},
		{name: "strikethrough", input: "~~gone~~", expected: "<del>gone</del>\n"},
		{name: "inline code", input: "`code`", expected: "<code>code</code>\n"},
		{name: "headers are stripped", input: "# Title", expected: "Title\n"},
		{name: "script removed", input: "<script>alert('xss')</script>", expected: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}

func TestMarkdownToPlain(t *testing.T) {
	got := MarkdownToPlain([]byte("**Task saved:** call mom"))
	assert.Contains(t, got, "Task saved:")
	assert.Contains(t, got, "call mom")
	assert.NotContains(t, got, "<strong>")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hi", Truncate("hi", 10))
	assert.Equal(t, "", Truncate("hi", 0))
}

func TestHTMLToText(t *testing.T) {
	got, err := HTMLToText("<p>Hello <b>Asha</b></p>")
	assert.NoError(t, err)
	assert.Contains(t, got, "Hello")
	assert.Contains(t, got, "Asha")
	assert.NotContains(t, got, "<b>")
}
