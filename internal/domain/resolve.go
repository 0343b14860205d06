package domain

import "strings"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// FloatFromPtrWithDefault returns the first non-nil *float64 value, or the
// fallback.
func FloatFromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// responsibleResolvers is the ordered fallback chain for a node's
// responsible display name. Upstream node objects are loosely shaped, so
// several fields may carry the name; the first non-empty candidate wins.
var responsibleResolvers = []func(*Node) string{
	func(n *Node) string {
		if n.Responsible == nil {
			return ""
		}
		return n.Responsible.Name
	},
	func(n *Node) string {
		if n.Responsible == nil {
			return ""
		}
		return n.Responsible.Email
	},
	func(n *Node) string {
		if n.Owner == nil {
			return ""
		}
		return n.Owner.Name
	},
	func(n *Node) string {
		if n.Owner == nil {
			return ""
		}
		return n.Owner.Email
	},
	func(n *Node) string { return n.ResponsibleName },
}

// ResolveResponsibleName returns the display name of the node's responsible
// party, or "" when no candidate field carries one.
func ResolveResponsibleName(n *Node) string {
	for _, resolve := range responsibleResolvers {
		if v := strings.TrimSpace(resolve(n)); v != "" {
			return v
		}
	}
	return ""
}

// ResolveOwnerID returns the id used for owner filtering, preferring the
// explicit responsible membership id and falling back to the generic owner
// id field.
func ResolveOwnerID(n *Node) string {
	if n.Responsible != nil && n.Responsible.MembershipID != "" {
		return n.Responsible.MembershipID
	}
	return n.OwnerID
}
