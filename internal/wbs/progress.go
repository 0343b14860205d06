package wbs

import "math"

// ProgressMap computes the derived progress of every node, bottom-up: an
// explicit finite progress value is clamped to [0,100] and rounded;
// otherwise a parent reports the rounded mean of its children and a bare
// leaf reports 0. The returned map is the snapshot-scoped cache: build a
// fresh one per snapshot, never keep it across mutations.
func (s *Snapshot) ProgressMap() map[string]int {
	cache := make(map[string]int, len(s.nodes))
	var compute func(id string) int
	compute = func(id string) int {
		if v, ok := cache[id]; ok {
			return v
		}
		n := s.nodes[id]
		value := 0
		switch {
		case n == nil:
		case n.Progress != nil && !math.IsNaN(*n.Progress) && !math.IsInf(*n.Progress, 0):
			value = int(math.Round(math.Max(0, math.Min(100, *n.Progress))))
		default:
			children := s.ChildrenOf(id)
			if len(children) > 0 {
				sum := 0
				for _, child := range children {
					sum += compute(child.ID)
				}
				value = int(math.Round(float64(sum) / float64(len(children))))
			}
		}
		cache[id] = value
		return value
	}
	for _, root := range s.Roots() {
		compute(root.ID)
	}
	return cache
}
