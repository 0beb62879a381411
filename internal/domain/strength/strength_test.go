package strength

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		want       int
	}{
		{name: "empty", passphrase: "", want: -1},
		{name: "single lowercase", passphrase: "x", want: 0},
		{name: "repeated run", passphrase: "zzz", want: -2},
		{name: "repeated and sequential letters", passphrase: "aaabc", want: -3},
		{name: "sequential digits", passphrase: "123", want: -1},
		{name: "descending digits", passphrase: "987", want: -1},
		{name: "keyboard run", passphrase: "qwe", want: -1},
		{name: "reverse keyboard run", passphrase: "lkj", want: -1},
		{name: "uppercase sequence is not penalized", passphrase: "XYZ", want: 0},
		{name: "uppercase alphabet run", passphrase: "ABCDEFGH", want: 1},
		{name: "lowercase alphabet run", passphrase: "abcdefgh", want: 0},
		{name: "four classes short", passphrase: "aZ5!", want: 3},
		{name: "eight mixed", passphrase: "aZ5!mQ9#", want: 4},
		{name: "twenty four mixed", passphrase: "aZ5!mQ9#kR2$wT7%pL4&hN8*", want: 8},
		{name: "long lowercase without patterns", passphrase: "mpxmpxmpxmpx", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.passphrase))
		})
	}
}

func TestScore_LengthTiersAreCumulative(t *testing.T) {
	// "mp" repeated avoids every pattern penalty and stays lowercase only.
	base := func(n int) string { return strings.Repeat("mp", n)[:n] }

	assert.Equal(t, 0, Score(base(7)))
	assert.Equal(t, 1, Score(base(8)))
	assert.Equal(t, 2, Score(base(12)))
	assert.Equal(t, 3, Score(base(16)))
	assert.Equal(t, 4, Score(base(20)))
	assert.Equal(t, 5, Score(base(24)))
	assert.Equal(t, 5, Score(base(40)))
}

func TestScore_AddingClassIncreasesByItsWeight(t *testing.T) {
	tests := []struct {
		base, added string
	}{
		{"mpmpmpmp", "mpmpmpmA"}, // uppercase, same length
		{"mpmpmpmp", "mpmpmpm7"}, // digit
		{"mpmpmpmp", "mpmpmpm!"}, // special
		{"MPMPMPMP", "MPMPMPMx"}, // lowercase
		{"aaabc", "aaabcD"},      // from the bottom of the range
		{"mpmpmpm", "mpmpmpm?"},  // also crosses the 8 character tier
	}

	for _, tt := range tests {
		t.Run(tt.added, func(t *testing.T) {
			want := Score(tt.base) + 1
			if len(tt.base) < 8 && len(tt.added) >= 8 {
				want++
			}
			assert.Equal(t, want, Score(tt.added))
		})
	}
}

func TestScore_StaysWithinTables(t *testing.T) {
	samples := []string{"", "a", "aaa", "aaabc", "aaabc123", "111", "Passw0rd!", "correct horse battery staple", strings.Repeat("Zz9!", 20)}
	for _, s := range samples {
		score := Score(s)
		assert.GreaterOrEqual(t, score, MinScore, s)
		assert.LessOrEqual(t, score, MaxScore, s)
		assert.NotPanics(t, func() { _ = Label(score) })
		assert.NotPanics(t, func() { _ = Color(score) })
	}
}

func TestEvaluate(t *testing.T) {
	got := Evaluate("abc12345")

	assert.Len(t, got, 12)
	assert.True(t, got["At least one lowercase letter"])
	assert.False(t, got["At least one uppercase letter"])
	assert.True(t, got["At least one number"])
	assert.False(t, got["At least one special character"])
	assert.False(t, got["No more than 2 repeated characters"])
	assert.True(t, got["No sequential numbers"])
	assert.True(t, got["No sequential letters"])
	assert.True(t, got["At least 8 characters"])
	assert.False(t, got["At least 12 characters"])

	assert.True(t, IsPenalty("No sequential numbers"))
	assert.False(t, IsPenalty("At least one number"))
	assert.False(t, IsPenalty("unknown criterion"))
}

func TestLabelAndColor(t *testing.T) {
	assert.Equal(t, "Immediately change this", Label(-2))
	assert.Equal(t, "Perfect", Label(8))
	assert.Equal(t, "#FF0000", Color(-2))
	assert.Equal(t, "#00FF00", Color(8))

	assert.Panics(t, func() { _ = Label(9) })
	assert.Panics(t, func() { _ = Color(-4) })
}

func TestRatingOf(t *testing.T) {
	assert.Equal(t, RatingWeak, RatingOf(3))
	assert.Equal(t, RatingMedium, RatingOf(4))
	assert.Equal(t, RatingMedium, RatingOf(5))
	assert.Equal(t, RatingStrong, RatingOf(6))
}
