package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitHTML(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{"fits", "hello", 10, []string{"hello"}},
		{"newline break", "aaaaaa\nbbbbbb", 10, []string{"aaaaaa", "bbbbbb"}},
		{"hard cut", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitHTML(tt.text, tt.maxLen))
		})
	}
}

func TestSplitHTML_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("ж", 30)
	for _, chunk := range splitHTML(text, 7) {
		assert.True(t, utf8.ValidString(chunk), chunk)
		assert.LessOrEqual(t, len(chunk), 7)
	}
	assert.Equal(t, text, strings.Join(splitHTML(text, 7), ""))
}

func TestAllowList(t *testing.T) {
	a := newAllowList([]int64{42, 7})
	assert.True(t, a.permits(42))
	assert.False(t, a.permits(1))
	assert.False(t, newAllowList(nil).permits(42))
}

func TestUserID(t *testing.T) {
	assert.Equal(t, "tg-42", UserID(42))
}
