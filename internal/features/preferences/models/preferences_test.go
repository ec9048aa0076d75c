package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from Tab
		dir  Direction
		want Tab
	}{
		{TabCabinet, SwipeLeft, TabHome},
		{TabHome, SwipeLeft, TabTariffs},
		{TabTariffs, SwipeLeft, TabTariffs},
		{TabTariffs, SwipeRight, TabHome},
		{TabHome, SwipeRight, TabCabinet},
		{TabCabinet, SwipeRight, TabCabinet},
		{TabHome, "up", TabHome},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Next(tt.from, tt.dir), "%s %s", tt.from, tt.dir)
	}
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemePink, ParseTheme("pink"))
	assert.Equal(t, ThemeSpace, ParseTheme("space"))
	assert.Equal(t, ThemeSpace, ParseTheme(""))
	assert.Equal(t, ThemeSpace, ParseTheme("PINK"))
}
