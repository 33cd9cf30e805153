package domain

import "testing"

func TestBadgeForTrustScore(t *testing.T) {
	cases := []struct {
		score float64
		want  Badge
	}{
		{5.0, BadgeExcellent},
		{4.5, BadgeExcellent}, // lower bound inclusive
		{4.49, BadgeVeryGood},
		{4.0, BadgeVeryGood},
		{3.99, BadgeGood},
		{3.5, BadgeGood},
		{3.49, BadgeAverage},
		{0, BadgeAverage},
		{-1, BadgeAverage},
	}

	for _, tc := range cases {
		if got := BadgeForTrustScore(tc.score); got != tc.want {
			t.Errorf("BadgeForTrustScore(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
