package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "  \n\t ", want: ""},
		{name: "short message", in: "Me explica fotossíntese?", want: "Me explica fotossíntese?"},
		{name: "first line only", in: "Fotossíntese\ncom mais detalhes por favor", want: "Fotossíntese"},
		{name: "trims spaces", in: "   O que é mitose?   ", want: "O que é mitose?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DeriveTitle(tt.in))
		})
	}

	t.Run("long message cut at word boundary", func(t *testing.T) {
		t.Parallel()

		in := strings.Repeat("palavra ", 30)
		got := DeriveTitle(in)
		assert.True(t, strings.HasSuffix(got, "…"))
		assert.LessOrEqual(t, len([]rune(got)), MaxTitleLen+1)
		assert.NotContains(t, strings.TrimSuffix(got, "…"), "palavr…", "no mid-word cut")
	})
}

func TestNormalizeHistoryLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int32
		want  int32
	}{
		{name: "zero uses default", limit: 0, want: DefaultHistoryLimit},
		{name: "negative uses default", limit: -5, want: DefaultHistoryLimit},
		{name: "in range unchanged", limit: 42, want: 42},
		{name: "above max clamped", limit: 99999, want: MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeHistoryLimit(tt.limit))
		})
	}
}
