package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromScore_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  int
	}{
		{100, 1},
		{85, 1},
		{84.99, 2},
		{70, 2},
		{69.5, 3},
		{50, 3},
		{49.99, 4},
		{0, 4},
		{-3, 4},
		{120, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromScore(tt.score), "score %v", tt.score)
	}
}

func TestFromScore_TotalAndMonotonic(t *testing.T) {
	t.Parallel()

	prev := Worst
	for s := 0.0; s <= 100.0; s += 0.25 {
		got := FromScore(s)
		assert.True(t, Valid(got), "score %v mapped to invalid tier %d", s, got)
		assert.LessOrEqual(t, got, prev, "tier must never worsen as score rises (score %v)", s)
		// Same score always maps to the same tier.
		assert.Equal(t, got, FromScore(s))
		prev = got
	}
}

func TestTable_Ordered(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(Table); i++ {
		assert.Greater(t, Table[i-1].MinScore, Table[i].MinScore)
		assert.Equal(t, Table[i-1].Tier+1, Table[i].Tier)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.False(t, Valid(0))
	assert.True(t, Valid(1))
	assert.True(t, Valid(4))
	assert.False(t, Valid(5))
}

func TestColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#48bb78", Color(1))
	assert.Equal(t, "#4299e1", Color(2))
	assert.Equal(t, "#ed8936", Color(3))
	assert.Equal(t, "#f56565", Color(4))
	assert.Equal(t, "#f56565", Color(9))
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Tier 2", Label(2))
	assert.Equal(t, "Unranked", Label(0))
}
