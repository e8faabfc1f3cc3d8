package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"empty", "", 10, "0/10"},
		{"trimmed", "  lake ", 10, "4/10"},
		{"runes", "côté", 10, "4/10"},
		{"over", "abcdefghijk", 10, "11/10"},
		{"uncapped", "valley", 0, "6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nameCount(tt.input, tt.limit))
		})
	}
}
