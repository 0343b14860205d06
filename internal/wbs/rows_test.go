package wbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trama/internal/domain"
)

func TestFlatten_DocumentOrderAndCodes(t *testing.T) {
	s := buildFixture()
	rows := s.Flatten()
	require.Len(t, rows, 7)

	got := make([][2]string, len(rows))
	for i, r := range rows {
		got[i] = [2]string{r.Node.ID, r.DisplayCode}
	}
	assert.Equal(t, [][2]string{
		{"a", "1"},
		{"a1", "1.1"},
		{"a2", "1.2"},
		{"a2x", "1.2.1"},
		{"b", "2"},
		{"b1", "2.1"},
		{"c", "3"},
	}, got)

	assert.True(t, rows[2].HasChildren)
	assert.False(t, rows[1].HasChildren)
	assert.Equal(t, 2, rows[3].Level)
	assert.Equal(t, "a2", rows[3].ParentID)
}

func TestFlatten_CodesUniqueAndRecomputed(t *testing.T) {
	s := buildFixture()
	s, intent := s.Reorder("c", 0)
	require.NotNil(t, intent)

	rows := s.Flatten()
	seen := make(map[string]bool)
	for _, r := range rows {
		assert.False(t, seen[r.DisplayCode], "duplicate code %s", r.DisplayCode)
		seen[r.DisplayCode] = true
	}
	// c moved to the front, so it now computes as "1".
	assert.Equal(t, "c", rows[0].Node.ID)
	assert.Equal(t, "1", rows[0].DisplayCode)
	assert.Equal(t, "2.1", rows[2].DisplayCode) // a1 under a at position 2
}

func TestFlatten_SkipsSoftDeleted(t *testing.T) {
	s := buildFixture()
	s, _ = s.SoftDelete("b", testNow)
	rows := s.Flatten()
	require.Len(t, rows, 5) // b and b1 gone from active traversal
	assert.Equal(t, "2", rows[4].DisplayCode)
	assert.Equal(t, "c", rows[4].Node.ID)
}

func TestRowCode_ExplicitOverride(t *testing.T) {
	n := node("x")
	n.Code = "EXT-9"
	s := Build([]Entry{{Node: n}})
	rows := s.Flatten()
	assert.Equal(t, "1", rows[0].DisplayCode)
	assert.Equal(t, "EXT-9", rows[0].Code())
}

func TestProject_AllExpandedYieldsEveryActiveRow(t *testing.T) {
	s := buildFixture()
	rows := s.Flatten()
	expanded := make(map[string]bool)
	for _, r := range rows {
		expanded[r.Node.ID] = true
	}
	assert.Equal(t, rows, Project(rows, expanded))
}

func TestProject_DefaultExpansionIsLevelZeroOnly(t *testing.T) {
	s := buildFixture()
	rows := s.Flatten()
	visible := Project(rows, nil)

	var ids []string
	for _, r := range visible {
		ids = append(ids, r.Node.ID)
	}
	// Roots are expanded by default, deeper parents are not: a2x hidden.
	assert.Equal(t, []string{"a", "a1", "a2", "b", "b1", "c"}, ids)
}

func TestProject_CollapsedAncestorHidesSubtree(t *testing.T) {
	s := buildFixture()
	rows := s.Flatten()
	visible := Project(rows, map[string]bool{"a": false, "a2": true})

	var ids []string
	for _, r := range visible {
		ids = append(ids, r.Node.ID)
	}
	// a collapsed hides a1, a2 and (transitively) a2x even though a2 is
	// itself marked expanded.
	assert.Equal(t, []string{"a", "b", "b1", "c"}, ids)
}

func TestProject_ExpandDeepParentRevealsChild(t *testing.T) {
	s := buildFixture()
	visible := Project(s.Flatten(), map[string]bool{"a2": true})
	var ids []string
	for _, r := range visible {
		ids = append(ids, r.Node.ID)
	}
	assert.Contains(t, ids, "a2x")
}

func TestProject_CorruptParentDoesNotHideRow(t *testing.T) {
	// A row whose ancestor chain breaks (parent row missing) stays visible;
	// one corrupt node must not hide the rest of the tree.
	rows := []Row{
		{Node: &domain.Node{ID: "ghost-child"}, Level: 3, ParentID: "ghost"},
	}
	assert.Len(t, Project(rows, nil), 1)
}
