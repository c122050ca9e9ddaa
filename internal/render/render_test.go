package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		content string
		fields  map[string]string
		want    string
	}{
		{
			name:    "AllTokensResolved",
			content: "<p>{{buyerName}} buys from {{sellerName}}</p>",
			fields:  map[string]string{"buyerName": "Jane", "sellerName": "John"},
			want:    "<p>Jane buys from John</p>",
		},
		{
			name:    "MissingKeyRendersMarker",
			content: "<p>{{buyerName}} buys from {{sellerName}}</p>",
			fields:  map[string]string{"buyerName": "Jane"},
			want:    "<p>Jane buys from [sellerName]</p>",
		},
		{
			name:    "NoTokens",
			content: "<p>plain content</p>",
			fields:  map[string]string{"buyerName": "Jane"},
			want:    "<p>plain content</p>",
		},
		{
			name:    "RepeatedToken",
			content: "{{name}} and {{name}}",
			fields:  map[string]string{"name": "Jane"},
			want:    "Jane and Jane",
		},
		{
			name:    "EmptyFields",
			content: "{{a}}-{{b}}",
			fields:  map[string]string{},
			want:    "[a]-[b]",
		},
		{
			name:    "PermissiveIdentifier",
			content: "{{property address}}",
			fields:  map[string]string{"property address": "12 Hill Road"},
			want:    "12 Hill Road",
		},
		{
			name:    "UnterminatedTokenLeftAlone",
			content: "{{open and no close",
			fields:  map[string]string{"open and no close": "x"},
			want:    "{{open and no close",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.content, tt.fields))
		})
	}
}

func TestRenderLeavesNoLiteralTokens(t *testing.T) {
	out := Render("{{a}} {{b}} {{c}}", map[string]string{"b": "two"})
	assert.Equal(t, "[a] two [c]", out)
	assert.NotContains(t, out, "{{")
}

func TestRenderIsSinglePass(t *testing.T) {
	// A substituted value containing a token must not be expanded again.
	fields := map[string]string{
		"outer": "{{inner}}",
		"inner": "should never appear",
	}
	assert.Equal(t, "{{inner}}", Render("{{outer}}", fields))
}
