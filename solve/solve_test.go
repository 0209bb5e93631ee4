package solve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damo/twistytimer-core/penalty"
)

func TestGetTimeRoundingBelowTenMinutes(t *testing.T) {
	s, err := New(12345, Cube333, "default", 0, "", penalty.NoPenalties, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12340), s.GetTime())
	assert.Equal(t, int64(0), s.GetTime()%10)
}

func TestGetTimeRoundingAtOrAboveTenMinutes(t *testing.T) {
	s, err := New(600500, Cube333, "default", 0, "", penalty.NoPenalties, "")
	require.NoError(t, err)
	got := s.GetTime()
	assert.Equal(t, int64(0), got%1000)
	diff := got - s.ExactTimeMs()
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, int64(500))
}

func TestGetTimeNeverStoresRounded(t *testing.T) {
	s, err := New(12345, Cube333, "default", 0, "", penalty.NoPenalties, "")
	require.NoError(t, err)
	_ = s.GetTime()
	assert.Equal(t, int64(12345), s.ExactTimeMs())
}

func TestCategoryMustBeNonEmpty(t *testing.T) {
	_, err := New(1000, Cube333, "   ", 0, "", penalty.NoPenalties, "")
	require.Error(t, err)
}

func TestScrambleAndCommentAreTrimmed(t *testing.T) {
	s, err := New(1000, Cube333, "default", 0, "  R U R' \n", penalty.NoPenalties, "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, "R U R'", s.Scramble())
	assert.Equal(t, "nice", s.Comment())
}

func TestWithPenaltiesAdjustingTime(t *testing.T) {
	s, err := New(12300, Cube333, "default", 0, "", penalty.NoPenalties, "")
	require.NoError(t, err)

	withPlusTwo := s.WithPenaltiesAdjustingTime(penalty.NoPenalties.IncurPostStart(penalty.PlusTwo))
	assert.Equal(t, int64(14300), withPlusTwo.ExactTimeMs())

	back := withPlusTwo.WithPenaltiesAdjustingTime(penalty.NoPenalties)
	assert.Equal(t, int64(12300), back.ExactTimeMs())
}

func TestWithPenaltiesNotAdjustingTimeLeavesTimeAlone(t *testing.T) {
	s, err := New(12300, Cube333, "default", 0, "", penalty.NoPenalties, "")
	require.NoError(t, err)
	dnf := s.WithPenaltiesNotAdjustingTime(penalty.NoPenalties.IncurPostStart(penalty.DNF))
	assert.Equal(t, int64(12300), dnf.ExactTimeMs())
	assert.True(t, dnf.IsDNF())
}

func TestWithTimeIncludingExcludingPenalties(t *testing.T) {
	p := penalty.NoPenalties.IncurPostStart(penalty.PlusTwo)
	s, err := New(0, Cube333, "default", 0, "", p, "")
	require.NoError(t, err)

	withIncl := s.WithTimeIncludingPenalties(14300)
	assert.Equal(t, int64(14300), withIncl.ExactTimeMs())

	withExcl := s.WithTimeExcludingPenalties(12300)
	assert.Equal(t, int64(14300), withExcl.ExactTimeMs())
}

func TestEqualityAndHashConsistency(t *testing.T) {
	a, err := New(12300, Cube333, "default", 42, "scramble", penalty.NoPenalties, "note")
	require.NoError(t, err)
	b, err := New(12300, Cube333, "default", 42, "scramble", penalty.NoPenalties, "note")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	c := b.WithComment("different")
	assert.False(t, a.Equal(c))
}

func TestNoIDSentinel(t *testing.T) {
	s, err := New(1, Cube333, "default", 0, "", penalty.NoPenalties, "")
	require.NoError(t, err)
	assert.Equal(t, NoID, s.ID())
	withID := s.WithID(SolveId(7))
	assert.Equal(t, SolveId(7), withID.ID())
}
