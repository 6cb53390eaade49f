package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"maria@example.com", "m…@e….com"},
		{" Maria@Example.COM ", "m…@e….com"},
		{"a@b.io", "a@b.io"},
		{"", ""},
		{"abc", "***"},
		{"nodomain", "n…"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskEmail(c.in), c.in)
	}
}
