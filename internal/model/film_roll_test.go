package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilmFormat(t *testing.T) {
	tests := []struct {
		in   string
		want FilmFormat
		wire string
	}{
		{"35mm", FilmFormat35mm, "35mm"},
		{" 6X6 ", FilmFormat6x6, "6x6"},
		{"6x4.5", FilmFormat6x4_5, "6x4_5"},
		{"6x4_5", FilmFormat6x4_5, "6x4_5"},
		{"6x7", FilmFormat6x7, "6x7"},
		{"6x9", FilmFormat6x9, "6x9"},
		{"other", FilmFormatOther, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilmFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wire, got.Wire())
		})
	}

	_, err := ParseFilmFormat("4x5")
	assert.ErrorIs(t, err, ErrUnknownFilmFormat)
	assert.Equal(t, "other", FilmFormat("format4x5").Wire())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("OWNER").Valid())
	assert.False(t, Role("").Valid())
}
