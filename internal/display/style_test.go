package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/notiman/internal/config"
)

func TestBuildCSS(t *testing.T) {
	css := BuildCSS(config.DefaultAccentColor)

	assert.Contains(t, css, "border-left: 3px solid #7C3AED;")
	assert.Contains(t, css, ".icon-info .notiman-icon    { background-color: #60A5FA; }")
	assert.Contains(t, css, ".icon-error .notiman-icon   { background-color: #F87171; }")
	assert.NotContains(t, css, "@accent@")
	assert.NotContains(t, css, "@icon-")
}

func TestSanitizeClassName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "BottomRight", want: "bottomright"},
		{input: "my project", want: "my-project"},
		{input: "org.example/App", want: "org-example-app"},
		{input: "--weird__name--", want: "weird-name"},
		{input: "ünïcode", want: "ncode"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeClassName(tt.input))
		})
	}
}
