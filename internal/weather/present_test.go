package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandBoundaries(t *testing.T) {
	cases := []struct {
		code int
		want Band
	}{
		{-1, BandOther},
		{0, BandOther},
		{199, BandOther},
		{200, BandThunderstorm},
		{299, BandThunderstorm},
		{300, BandDrizzle},
		{399, BandDrizzle},
		{400, BandOther},
		{499, BandOther},
		{500, BandRain},
		{599, BandRain},
		{600, BandSnow},
		{699, BandSnow},
		{700, BandMist},
		{799, BandMist},
		{800, BandClear},
		{801, BandClouds},
		{804, BandClouds},
		{100000, BandClouds},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, BandFor(tc.code), "code %d", tc.code)
		assert.Equal(t, icons[tc.want], IconFor(tc.code), "icon for %d", tc.code)
		assert.Equal(t, backgrounds[tc.want], BackgroundFor(tc.code), "background for %d", tc.code)
	}
}

func TestMappersAreTotalAndDeterministic(t *testing.T) {
	for code := 100; code <= 900; code++ {
		icon := IconFor(code)
		bg := BackgroundFor(code)
		assert.NotEmpty(t, icon, "icon for %d", code)
		assert.NotEmpty(t, bg, "background for %d", code)
		assert.Equal(t, icon, IconFor(code))
		assert.Equal(t, bg, BackgroundFor(code))
	}
}

func TestClearSkyIsYellow(t *testing.T) {
	assert.Equal(t, "☀️", IconFor(800))
	assert.Contains(t, BackgroundFor(800), "yellow")
}

func TestEveryBandHasDistinctBackground(t *testing.T) {
	seen := map[string]Band{}
	for band, bg := range backgrounds {
		prev, dup := seen[bg]
		assert.False(t, dup, "%s shared by %s and %s", bg, prev, band)
		seen[bg] = band
	}
	assert.Len(t, seen, 8)
}
