package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsText(t *testing.T) {
	t.Parallel()

	assert.True(t, IsText(nil))
	assert.True(t, IsText([]byte("# héllo\n")))
	assert.False(t, IsText([]byte{0xff, 0xfe, 'a'}))
	assert.True(t, IsText([]byte("a\x00b")))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty", content: "", want: nil},
		{name: "single no newline", content: "a", want: []string{"a"}},
		{name: "trailing newline", content: "a\nb\n", want: []string{"a", "b"}},
		{name: "blank lines kept", content: "a\n\nb", want: []string{"a", "", "b"}},
		{name: "crlf left intact", content: "a\r\nb\r\n", want: []string{"a\r", "b\r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, SplitLines(tt.content))
		})
	}
}
