package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/qtext/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleSet(t *testing.T) {
	s := domain.NewStyleSet("red", "BOLD", "red", "")
	assert.Equal(t, []string{"BOLD", "red"}, s.Keys())
	assert.True(t, s.Has("red"))
	assert.False(t, s.Has("blue"))

	added := s.Add("ITALIC")
	assert.Equal(t, 2, s.Len(), "Add must not mutate the receiver")
	assert.Equal(t, 3, added.Len())

	removed := added.Remove("red", "blue")
	assert.True(t, removed.Equal(domain.NewStyleSet("BOLD", "ITALIC")))
	assert.True(t, domain.NewStyleSet("x").Remove("x").Equal(domain.StyleSet{}))

	assert.True(t, s.Intersect([]string{"red", "blue"}).Equal(domain.NewStyleSet("red")))
}

func TestStyleSet_JSON(t *testing.T) {
	data, err := json.Marshal(domain.StyleSet{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var s domain.StyleSet
	require.NoError(t, json.Unmarshal([]byte(`["b","a","b"]`), &s))
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	require.NoError(t, json.Unmarshal([]byte(`[]`), &s))
	assert.True(t, s.Equal(domain.StyleSet{}))
}

func TestSelection(t *testing.T) {
	caret := domain.Caret("a", 2)
	assert.True(t, caret.IsCollapsed())
	assert.Equal(t, caret.Anchor, caret.Start())

	back := domain.Selection{
		Anchor:   domain.Position{BlockKey: "b", Offset: 1},
		Focus:    domain.Position{BlockKey: "a", Offset: 3},
		Backward: true,
	}
	assert.False(t, back.IsCollapsed())
	assert.Equal(t, "a", back.Start().BlockKey)
	assert.Equal(t, "b", back.End().BlockKey)
}

func TestPolicy_Permits(t *testing.T) {
	tests := []struct {
		name   string
		policy domain.Policy
		action string
		want   bool
	}{
		{"Default Permits", domain.Policy{}, "bold", true},
		{"Empty Action", domain.Policy{}, "  ", false},
		{"Disabled", domain.Policy{Disabled: []string{"Color"}}, "color", false},
		{"Disabled Other", domain.Policy{Disabled: []string{"color"}}, "bold", true},
		{"Allow List Member", domain.Policy{Allowed: []string{"bold"}}, "BOLD", true},
		{"Allow List Outsider", domain.Policy{Allowed: []string{"bold"}}, "italic", false},
		{"Allowed But Disabled", domain.Policy{Allowed: []string{"bold"}, Disabled: []string{"bold"}}, "bold", false},
		{"Read Only Preview", domain.Policy{ReadOnly: true}, "preview", true},
		{"Read Only Bold", domain.Policy{ReadOnly: true}, "bold", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Permits(tt.action))
		})
	}
}

func TestDispatchError(t *testing.T) {
	err := error(&domain.DispatchError{Action: "red", Reason: "not in group", Err: domain.ErrUnknownStyle})
	assert.ErrorIs(t, err, domain.ErrInvalidDispatch)
	assert.ErrorIs(t, err, domain.ErrUnknownStyle)
	assert.EqualError(t, err, `dispatch "red": not in group`)

	var de *domain.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "red", de.Action)
}
