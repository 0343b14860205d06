package wbs

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trama/internal/domain"
)

func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestUpdateNode_ShallowMerge(t *testing.T) {
	s := buildFixture()
	next, intent := s.UpdateNode("a1", Update{
		Title:  strPtr("Renamed"),
		Status: strPtr("IN_PROGRESS"),
	}, testNow)
	require.NotNil(t, intent)
	assert.Equal(t, ScopeUpdate, intent.Scope)

	updated := next.Get("a1")
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "IN_PROGRESS", updated.Status)
	assert.Equal(t, testNow, updated.UpdatedAt)

	// Untouched fields and the previous snapshot survive.
	assert.Equal(t, "Task a1", s.Get("a1").Title)
}

func TestUpdateNode_UnknownIDIsNoOp(t *testing.T) {
	s := buildFixture()
	next, intent := s.UpdateNode("missing", Update{Title: strPtr("x")}, testNow)
	assert.Nil(t, intent)
	assert.Same(t, s, next)
}

func TestUpdateNode_DateChangeDerivesEstimate(t *testing.T) {
	s := buildFixture()
	next, _ := s.UpdateNode("a1", Update{
		StartDate: strPtr("2024-01-01"),
		EndDate:   strPtr("2024-01-05"),
	}, testNow)

	n := next.Get("a1")
	require.NotNil(t, n.StartDate)
	require.NotNil(t, n.EndDate)
	require.NotNil(t, n.EstimateHours)
	assert.Equal(t, 40.0, *n.EstimateHours) // 5 days * 8h
}

func TestUpdateNode_SingleDateLeavesEstimateAlone(t *testing.T) {
	s := buildFixture()
	next, _ := s.UpdateNode("a1", Update{StartDate: strPtr("2024-01-01")}, testNow)
	assert.Nil(t, next.Get("a1").EstimateHours)
}

func TestUpdateNode_DurationDerivesEndDateAndHours(t *testing.T) {
	s := buildFixture()
	s, _ = s.UpdateNode("a1", Update{StartDate: strPtr("2024-01-01")}, testNow)
	next, _ := s.UpdateNode("a1", Update{DurationDays: intPtr(5)}, testNow)

	n := next.Get("a1")
	require.NotNil(t, n.EndDate)
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), *n.EndDate)
	require.NotNil(t, n.EstimateHours)
	assert.Equal(t, 40.0, *n.EstimateHours)
}

func TestUpdateNode_DurationWithoutStartDateStillSetsHours(t *testing.T) {
	s := buildFixture()
	next, _ := s.UpdateNode("a1", Update{DurationDays: intPtr(3)}, testNow)
	n := next.Get("a1")
	assert.Nil(t, n.EndDate)
	require.NotNil(t, n.EstimateHours)
	assert.Equal(t, 24.0, *n.EstimateHours)
}

func TestUpdateNode_ClearingDate(t *testing.T) {
	s := buildFixture()
	s, _ = s.UpdateNode("a1", Update{
		StartDate: strPtr("2024-01-01"),
		EndDate:   strPtr("2024-01-02"),
	}, testNow)
	next, _ := s.UpdateNode("a1", Update{EndDate: strPtr("")}, testNow)
	n := next.Get("a1")
	assert.Nil(t, n.EndDate)
	// Estimate keeps its last derived value; a half-known range derives
	// nothing new.
	require.NotNil(t, n.EstimateHours)
	assert.Equal(t, 16.0, *n.EstimateHours)
}

func TestUpdateNode_UnparseableDateDegradesToUnset(t *testing.T) {
	s := buildFixture()
	next, intent := s.UpdateNode("a1", Update{StartDate: strPtr("not-a-date")}, testNow)
	require.NotNil(t, intent)
	assert.Nil(t, next.Get("a1").StartDate)
}

func TestUpdateNode_NonFiniteNumbersDegrade(t *testing.T) {
	s := buildFixture()
	next, _ := s.UpdateNode("a1", Update{
		EstimateHours: floatPtr(math.NaN()),
		ServiceHours:  floatPtr(math.Inf(1)),
	}, testNow)
	n := next.Get("a1")
	assert.Nil(t, n.EstimateHours)
	assert.Nil(t, n.ServiceHours)
}

func TestUpdateNode_DoneStampsCompletion(t *testing.T) {
	s := buildFixture()
	next, _ := s.UpdateNode("a1", Update{Status: strPtr("DONE")}, testNow)
	require.NotNil(t, next.Get("a1").CompletedAt)
	assert.Equal(t, testNow, *next.Get("a1").CompletedAt)

	// A later update does not move the completion stamp.
	later := testNow.Add(48 * time.Hour)
	again, _ := next.UpdateNode("a1", Update{Status: strPtr("Finalizado")}, later)
	assert.Equal(t, testNow, *again.Get("a1").CompletedAt)
}

func TestUpdateNode_DependenciesReplacedAndSanitized(t *testing.T) {
	s := buildFixture()
	next, _ := s.UpdateNode("a1", Update{
		Dependencies: &[]string{"b1", "a1", "b1", "", "gone"},
	}, testNow)
	assert.Equal(t, []string{"b1", "gone"}, next.Get("a1").Dependencies)
}

func TestUpdateNode_Responsible(t *testing.T) {
	s := buildFixture()
	next, _ := s.UpdateNode("a1", Update{
		Responsible: &domain.Member{MembershipID: "m-1", Name: "Ana"},
	}, testNow)
	require.NotNil(t, next.Get("a1").Responsible)
	assert.Equal(t, "Ana", next.Get("a1").Responsible.Name)

	cleared, _ := next.UpdateNode("a1", Update{ClearResponsible: true}, testNow)
	assert.Nil(t, cleared.Get("a1").Responsible)
}
