package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name        string
		self        int64
		competitor  int64
		wantText    string
		wantTone    Tone
		wantStyle   string
		wantPercent int64
	}{
		{"경쟁 상품이 더 저렴함", 100000, 90000, "-11% ارزان‌تر", ToneCheaper, StyleClassCheaper, 11},
		{"경쟁 상품이 더 비쌈", 90000, 100000, "+10% گران‌تر", TonePricier, StyleClassPricier, 10},
		{"같은 가격", 50000, 50000, "هم‌قیمت", ToneNeutral, StyleClassNeutral, 0},
		{"가장 가까운 정수로 반올림", 1006, 1000, "-1% ارزان‌تر", ToneCheaper, StyleClassCheaper, 1},
		{"내 상품 가격이 0", 0, 1000, "+100% گران‌تر", TonePricier, StyleClassPricier, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badge, ok := Compare(tt.self, tt.competitor)

			require.True(t, ok)
			assert.Equal(t, tt.wantText, badge.Text)
			assert.Equal(t, tt.wantTone, badge.Tone)
			assert.Equal(t, tt.wantStyle, badge.StyleClass)
			assert.Equal(t, tt.wantPercent, badge.Percent)
		})
	}
}

func TestStyleClasses(t *testing.T) {
	// 빨간색은 경쟁 상품이 더 저렴할 때, 초록색은 더 비쌀 때 사용합니다.
	assert.Equal(t, "badge badge-red", StyleClassCheaper)
	assert.Equal(t, "badge badge-green", StyleClassPricier)
	assert.Equal(t, "badge badge-neutral", StyleClassNeutral)
}

func TestCompare_MissingCompetitorPriceSuppressesBadge(t *testing.T) {
	_, ok := Compare(100000, 0)
	assert.False(t, ok)

	_, ok = Compare(100000, -5)
	assert.False(t, ok)
}

func TestCompareOverview_SameRuleForLowestAndAverage(t *testing.T) {
	badges := CompareOverview(100000, 90000, 95000)

	require.NotNil(t, badges.Lowest)
	require.NotNil(t, badges.Average)
	assert.Equal(t, "-11% ارزان‌تر", badges.Lowest.Text)
	assert.Equal(t, "-5% ارزان‌تر", badges.Average.Text)
	assert.Equal(t, badges.Lowest.Tone, badges.Average.Tone)

	for _, price := range []int64{80000, 100000, 120000} {
		lowest := CompareOverview(100000, price, 0).Lowest
		average := CompareOverview(100000, 0, price).Average
		assert.Equal(t, lowest, average)
	}

	empty := CompareOverview(100000, 0, 0)
	assert.Nil(t, empty.Lowest)
	assert.Nil(t, empty.Average)
}
