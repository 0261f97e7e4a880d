package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		base  *SessionState
		delta StateDelta
		want  *SessionState
	}{
		{
			name:  "Empty delta keeps state",
			base:  &SessionState{LastIntent: "pricing", MessageCount: 3, UserCountry: "Ghana"},
			delta: StateDelta{},
			want:  &SessionState{LastIntent: "pricing", MessageCount: 3, UserCountry: "Ghana"},
		},
		{
			name: "Fields are overwritten individually",
			base: &SessionState{LastIntent: "pricing", MessageCount: 3, UserCountry: "Ghana", DemoShown: true},
			delta: StateDelta{
				LastIntent:      Ptr("demo"),
				LastInteraction: &ts,
				MessageCount:    Ptr(4),
			},
			want: &SessionState{LastIntent: "demo", LastInteraction: ts, MessageCount: 4, UserCountry: "Ghana", DemoShown: true},
		},
		{
			name:  "Nil base starts empty",
			base:  nil,
			delta: StateDelta{UserIndustry: Ptr("School")},
			want:  &SessionState{UserIndustry: "School"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.delta)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	base := &SessionState{LastIntent: "greeting"}
	_ = Merge(base, StateDelta{LastIntent: Ptr("modules")})
	assert.Equal(t, "greeting", base.LastIntent)
}

func TestStateDelta_Combine(t *testing.T) {
	first := StateDelta{UserCountry: Ptr("Nigeria"), LastIntent: Ptr("pricing")}
	second := StateDelta{LastIntent: Ptr("demo"), DemoShown: Ptr(true)}

	got := first.Combine(second)
	assert.Equal(t, "Nigeria", *got.UserCountry)
	assert.Equal(t, "demo", *got.LastIntent)
	assert.True(t, *got.DemoShown)
	assert.False(t, got.IsEmpty())
	assert.True(t, StateDelta{}.IsEmpty())
}

func TestStateDelta_SetFlag(t *testing.T) {
	var d StateDelta
	d.SetFlag(FlagDemoShown)
	d.SetFlag(Flag("unknown"))

	state := Merge(NewSessionState(), d)
	assert.True(t, state.HasFlag(FlagDemoShown))
	assert.False(t, state.HasFlag(FlagReadyForSales))
}

func TestCatalog_Lookup(t *testing.T) {
	c := NewCatalog("test", "1", []Node{
		{Tag: "a", Responses: []string{"first"}},
		{Tag: "b"},
		{Tag: "a", Responses: []string{"shadowed"}},
	})

	n, ok := c.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "first", n.Response())
	assert.Equal(t, []string{"a", "b", "a"}, c.Tags())
	assert.Equal(t, 3, c.Len())

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, "", Node{}.Response())
}
