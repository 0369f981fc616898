package domain

import "slices"

// AppState is everything the dashboard persists. It is stored as one blob and
// replaced as a whole on every change.
type AppState struct {
	Products    []Product  `json:"products"`
	Campaigns   []Campaign `json:"campaigns"`
	Users       []User     `json:"users"`
	MetaPixelID string     `json:"metaPixelId"`
}

// EmptyState returns a state with non-nil, empty collections.
func EmptyState() AppState {
	return AppState{
		Products:  []Product{},
		Campaigns: []Campaign{},
		Users:     []User{},
	}
}

// Clone returns a copy that shares no backing arrays with s.
func (s AppState) Clone() AppState {
	return AppState{
		Products:    nonNil(slices.Clone(s.Products)),
		Campaigns:   nonNil(slices.Clone(s.Campaigns)),
		Users:       nonNil(slices.Clone(s.Users)),
		MetaPixelID: s.MetaPixelID,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
