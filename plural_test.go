package msgfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLDRPluralRule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		locale string
		n      float64
		want   string
	}{
		{locale: "en", n: 1, want: PluralOne},
		{locale: "en", n: -1, want: PluralOne},
		{locale: "en", n: 0, want: PluralOther},
		{locale: "en", n: 5, want: PluralOther},
		{locale: "en", n: 1.5, want: PluralOther},
		{locale: "en-US", n: 1, want: PluralOne},
		{locale: "ru", n: 1, want: PluralOne},
		{locale: "ru", n: 3, want: PluralFew},
		{locale: "ru", n: 5, want: PluralMany},
		{locale: "ru", n: 11, want: PluralMany},
		{locale: "ar", n: 0, want: PluralZero},
		{locale: "ar", n: 2, want: PluralTwo},
		{locale: "zh", n: 1, want: PluralOther},
		{locale: "not a tag!", n: 1, want: PluralOther},
		{locale: "en", n: math.NaN(), want: PluralOther},
		{locale: "en", n: math.Inf(1), want: PluralOther},
		{locale: "en", n: 1e30, want: PluralOther},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, CLDRPluralRule(tc.locale)(tc.n), "%s %v", tc.locale, tc.n)
	}
}

func TestOperands(t *testing.T) {
	t.Parallel()

	i, v, w, f, tt, ok := operands(1.25)
	require.True(t, ok)
	require.Equal(t, []int{1, 2, 2, 25, 25}, []int{i, v, w, f, tt})

	i, v, w, f, tt, ok = operands(-7)
	require.True(t, ok)
	require.Equal(t, []int{7, 0, 0, 0, 0}, []int{i, v, w, f, tt})
}
