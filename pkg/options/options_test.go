package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"chat"}, "chat."},
		{[]string{"chat", "llm"}, "chat.llm."},
		{[]string{"", "llm"}, "llm."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Join(tt.in...), "%v", tt.in)
	}
}
