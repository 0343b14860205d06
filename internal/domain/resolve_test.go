package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveResponsibleName_Priority(t *testing.T) {
	n := &Node{
		Responsible:     &Member{Name: "Ana", Email: "ana@acme.dev"},
		Owner:           &Member{Name: "Bruno"},
		ResponsibleName: "Carla",
	}
	assert.Equal(t, "Ana", ResolveResponsibleName(n))

	n.Responsible.Name = ""
	assert.Equal(t, "ana@acme.dev", ResolveResponsibleName(n))

	n.Responsible = nil
	assert.Equal(t, "Bruno", ResolveResponsibleName(n))

	n.Owner = nil
	assert.Equal(t, "Carla", ResolveResponsibleName(n))
}

func TestResolveResponsibleName_Empty(t *testing.T) {
	assert.Equal(t, "", ResolveResponsibleName(&Node{}))
	assert.Equal(t, "", ResolveResponsibleName(&Node{ResponsibleName: "   "}))
}

func TestResolveOwnerID(t *testing.T) {
	n := &Node{
		Responsible: &Member{MembershipID: "m-1"},
		OwnerID:     "o-1",
	}
	assert.Equal(t, "m-1", ResolveOwnerID(n))

	n.Responsible.MembershipID = ""
	assert.Equal(t, "o-1", ResolveOwnerID(n))

	n.Responsible = nil
	assert.Equal(t, "o-1", ResolveOwnerID(n))
}

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		raw  string
		want Priority
	}{
		{"", PriorityMedium},
		{"urgente", PriorityCritical},
		{"CRITICAL", PriorityCritical},
		{"Alta", PriorityHigh},
		{"high", PriorityHigh},
		{"média", PriorityMedium},
		{"baixa", PriorityLow},
		{"LOW", PriorityLow},
		{"nonsense", PriorityMedium},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePriority(tc.raw), "raw=%q", tc.raw)
	}
}

func TestNodeClone_Independent(t *testing.T) {
	orig := &Node{
		ID:           "n1",
		Dependencies: []string{"a", "b"},
		Progress:     cloneFloat(floatPtr(40)),
		Responsible:  &Member{Name: "Ana"},
	}
	c := orig.Clone()
	c.Dependencies[0] = "z"
	*c.Progress = 99
	c.Responsible.Name = "Outro"

	assert.Equal(t, "a", orig.Dependencies[0])
	assert.Equal(t, 40.0, *orig.Progress)
	assert.Equal(t, "Ana", orig.Responsible.Name)
}

func floatPtr(v float64) *float64 { return &v }
