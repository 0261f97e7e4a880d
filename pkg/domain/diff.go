package domain

import "time"

// StateDelta is a partial update of SessionState.
// A nil field means "leave unchanged". Merge is last-writer-wins per field.
type StateDelta struct {
	LastIntent        *string    `json:"last_intent,omitempty"`
	LastInteraction   *time.Time `json:"last_interaction,omitempty"`
	MessageCount      *int       `json:"message_count,omitempty"`
	DemoShown         *bool      `json:"demo_shown,omitempty"`
	ReadyForSales     *bool      `json:"ready_for_sales,omitempty"`
	ProposalRequested *bool      `json:"proposal_requested,omitempty"`
	UserIndustry      *string    `json:"user_industry,omitempty"`
	UserCountry       *string    `json:"user_country,omitempty"`
	UserVolume        *string    `json:"user_volume,omitempty"`
	FacultyCount      *string    `json:"faculty_count,omitempty"`
}

// IsEmpty checks if the delta carries any change.
func (d StateDelta) IsEmpty() bool {
	return d.LastIntent == nil &&
		d.LastInteraction == nil &&
		d.MessageCount == nil &&
		d.DemoShown == nil &&
		d.ReadyForSales == nil &&
		d.ProposalRequested == nil &&
		d.UserIndustry == nil &&
		d.UserCountry == nil &&
		d.UserVolume == nil &&
		d.FacultyCount == nil
}

// SetFlag records a raised flag in the delta. Unknown flags are ignored.
func (d *StateDelta) SetFlag(f Flag) {
	t := true
	switch f {
	case FlagDemoShown:
		d.DemoShown = &t
	case FlagReadyForSales:
		d.ReadyForSales = &t
	case FlagProposalRequested:
		d.ProposalRequested = &t
	}
}

// Merge applies the delta on top of the state and returns the result.
// The receiver state is not modified.
func Merge(state *SessionState, d StateDelta) *SessionState {
	out := state.Clone()
	if d.LastIntent != nil {
		out.LastIntent = *d.LastIntent
	}
	if d.LastInteraction != nil {
		out.LastInteraction = *d.LastInteraction
	}
	if d.MessageCount != nil {
		out.MessageCount = *d.MessageCount
	}
	if d.DemoShown != nil {
		out.DemoShown = *d.DemoShown
	}
	if d.ReadyForSales != nil {
		out.ReadyForSales = *d.ReadyForSales
	}
	if d.ProposalRequested != nil {
		out.ProposalRequested = *d.ProposalRequested
	}
	if d.UserIndustry != nil {
		out.UserIndustry = *d.UserIndustry
	}
	if d.UserCountry != nil {
		out.UserCountry = *d.UserCountry
	}
	if d.UserVolume != nil {
		out.UserVolume = *d.UserVolume
	}
	if d.FacultyCount != nil {
		out.FacultyCount = *d.FacultyCount
	}
	return out
}

// Combine overlays next on top of d, field by field.
func (d StateDelta) Combine(next StateDelta) StateDelta {
	out := d
	if next.LastIntent != nil {
		out.LastIntent = next.LastIntent
	}
	if next.LastInteraction != nil {
		out.LastInteraction = next.LastInteraction
	}
	if next.MessageCount != nil {
		out.MessageCount = next.MessageCount
	}
	if next.DemoShown != nil {
		out.DemoShown = next.DemoShown
	}
	if next.ReadyForSales != nil {
		out.ReadyForSales = next.ReadyForSales
	}
	if next.ProposalRequested != nil {
		out.ProposalRequested = next.ProposalRequested
	}
	if next.UserIndustry != nil {
		out.UserIndustry = next.UserIndustry
	}
	if next.UserCountry != nil {
		out.UserCountry = next.UserCountry
	}
	if next.UserVolume != nil {
		out.UserVolume = next.UserVolume
	}
	if next.FacultyCount != nil {
		out.FacultyCount = next.FacultyCount
	}
	return out
}

// Ptr returns a pointer to v. Handy when building deltas.
func Ptr[T any](v T) *T {
	return &v
}
