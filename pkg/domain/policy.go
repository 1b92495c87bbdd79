package domain

import (
	"slices"
	"strings"
)

// ActionPreview is the only action a read-only toolbar permits.
const ActionPreview = "preview"

// Policy is the host allow/deny configuration for toolbar actions.
type Policy struct {
	// Disabled lists actions that are hidden and cannot be dispatched.
	Disabled []string `json:"disabled,omitempty"`

	// Allowed, when non-empty, limits the toolbar to its members.
	Allowed []string `json:"allowed,omitempty"`

	// ReadOnly permits only the preview action.
	ReadOnly bool `json:"read_only,omitempty"`
}

// Permits reports whether the action may be rendered and dispatched.
// Matching ignores case.
func (p Policy) Permits(action string) bool {
	key := strings.ToLower(strings.TrimSpace(action))
	if key == "" {
		return false
	}
	if p.ReadOnly {
		return key == ActionPreview
	}
	if len(p.Allowed) > 0 && !contains(p.Allowed, key) {
		return false
	}
	return !contains(p.Disabled, key)
}

func contains(list []string, key string) bool {
	return slices.ContainsFunc(list, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), key)
	})
}
