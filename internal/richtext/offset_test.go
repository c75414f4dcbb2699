package richtext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDoc is [PlainRun "hi "][Mention alice][PlainRun "!"], logical text
// "hi @alice!" (10 runes, mention span [3,9)).
func testDoc(t *testing.T) Document {
	t.Helper()
	doc := ParseDocument("hi @alice!", map[string]bool{"alice": true})
	require.Equal(t, 3, doc.NodeCount())
	return doc
}

func TestStructuralPositionBoundariesResolveForward(t *testing.T) {
	doc := testDoc(t)

	// Boundary between the plain run and the mention belongs to the
	// mention's start.
	pos, err := doc.StructuralPosition(3)
	require.NoError(t, err)
	assert.Equal(t, StructuralPosition{NodeIndex: 1, InnerOffset: 0}, pos)

	// Boundary between the mention and the trailing run belongs to the
	// trailing run's start.
	pos, err = doc.StructuralPosition(9)
	require.NoError(t, err)
	assert.Equal(t, StructuralPosition{NodeIndex: 2, InnerOffset: 0}, pos)
}

func TestStructuralPositionDocumentEnd(t *testing.T) {
	doc := testDoc(t)

	pos, err := doc.StructuralPosition(10)
	require.NoError(t, err)
	assert.Equal(t, StructuralPosition{NodeIndex: 2, InnerOffset: 1}, pos)
}

func TestStructuralPositionSnapsInsideMention(t *testing.T) {
	doc := testDoc(t)

	// Offsets 4..8 fall strictly inside "@alice" and snap to its end.
	for offset := 4; offset <= 8; offset++ {
		pos, err := doc.StructuralPosition(offset)
		require.NoError(t, err)
		assert.Equal(t, StructuralPosition{NodeIndex: 1, InnerOffset: 6}, pos, "offset %d", offset)
	}
}

func TestStructuralPositionOutOfRange(t *testing.T) {
	doc := testDoc(t)

	for _, offset := range []int{-1, 11} {
		_, err := doc.StructuralPosition(offset)
		var oor *OutOfRangeError
		require.ErrorAs(t, err, &oor, "offset %d", offset)
		assert.Equal(t, offset, oor.Offset)
		assert.Equal(t, 10, oor.Len)
	}
}

func TestLogicalOffsetInverseOnCanonicalPositions(t *testing.T) {
	doc := testDoc(t)

	// Every canonical position round-trips exactly.
	for offset := 0; offset <= doc.Len(); offset++ {
		pos, err := doc.StructuralPosition(offset)
		require.NoError(t, err)

		back, err := doc.LogicalOffset(pos)
		require.NoError(t, err)

		again, err := doc.StructuralPosition(back)
		require.NoError(t, err)
		assert.Equal(t, pos, again, "offset %d", offset)
	}
}

func TestLogicalOffsetRoundTripOutsideMentions(t *testing.T) {
	doc := testDoc(t)

	// Offsets not strictly inside the mention are fixed points.
	for _, offset := range []int{0, 1, 2, 3, 9, 10} {
		pos, err := doc.StructuralPosition(offset)
		require.NoError(t, err)
		back, err := doc.LogicalOffset(pos)
		require.NoError(t, err)
		assert.Equal(t, offset, back, "offset %d", offset)
	}
}

func TestLogicalOffsetRejectsMentionInterior(t *testing.T) {
	doc := testDoc(t)

	_, err := doc.LogicalOffset(StructuralPosition{NodeIndex: 1, InnerOffset: 3})
	assert.Error(t, err)

	// Token boundaries are fine.
	off, err := doc.LogicalOffset(StructuralPosition{NodeIndex: 1, InnerOffset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, off)

	off, err = doc.LogicalOffset(StructuralPosition{NodeIndex: 1, InnerOffset: 6})
	require.NoError(t, err)
	assert.Equal(t, 9, off)
}

func TestLogicalOffsetRejectsBadPositions(t *testing.T) {
	doc := testDoc(t)

	_, err := doc.LogicalOffset(StructuralPosition{NodeIndex: -1})
	assert.Error(t, err)
	_, err = doc.LogicalOffset(StructuralPosition{NodeIndex: 3})
	assert.Error(t, err)
	_, err = doc.LogicalOffset(StructuralPosition{NodeIndex: 0, InnerOffset: 4})
	assert.Error(t, err)
}

func TestOutOfRangeErrorMessage(t *testing.T) {
	err := &OutOfRangeError{Offset: 12, Len: 10}
	assert.Contains(t, err.Error(), "12")
	assert.Contains(t, err.Error(), "10")
	assert.True(t, errors.As(error(err), new(*OutOfRangeError)))
}

func TestStructuralPositionUnicode(t *testing.T) {
	doc := ParseDocument("héllo @josé!", map[string]bool{"josé": true})
	require.Equal(t, 3, doc.NodeCount())

	// "héllo " is 6 runes; the mention "@josé" spans [6, 11).
	pos, err := doc.StructuralPosition(6)
	require.NoError(t, err)
	assert.Equal(t, StructuralPosition{NodeIndex: 1, InnerOffset: 0}, pos)

	pos, err = doc.StructuralPosition(8)
	require.NoError(t, err)
	assert.Equal(t, StructuralPosition{NodeIndex: 1, InnerOffset: 5}, pos)
}
