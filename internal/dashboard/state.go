// Package dashboard holds the application state of an interactive dashboard
// and recomputes every panel from it.
package dashboard

import (
	"slices"

	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// State is the current country selection. Methods return new states and
// never modify the receiver. Keys are normalized with
// regulation.NormalizeCountry so they match loaded tables.
type State struct {
	Selected []string `json:"selected"`
}

// NewState returns a state selecting countries, with duplicates removed.
func NewState(countries ...string) State {
	return State{}.WithSelection(countries)
}

// WithSelection replaces the selection. Order is kept and duplicates and
// empty keys are dropped.
func (s State) WithSelection(countries []string) State {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		c = regulation.NormalizeCountry(c)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return State{Selected: out}
}

// Add appends countries not yet selected.
func (s State) Add(countries ...string) State {
	return s.WithSelection(append(slices.Clone(s.Selected), countries...))
}

// Remove drops countries from the selection.
func (s State) Remove(countries ...string) State {
	drop := normalizeAll(countries)
	out := make([]string, 0, len(s.Selected))
	for _, c := range s.Selected {
		if !slices.Contains(drop, c) {
			out = append(out, c)
		}
	}
	return State{Selected: out}
}

// Clear returns a state with nothing selected.
func (s State) Clear() State {
	return State{Selected: []string{}}
}

// Toggle adds country when it is not selected and removes it otherwise.
func (s State) Toggle(country string) State {
	if s.Has(country) {
		return s.Remove(country)
	}
	return s.Add(country)
}

// Has reports whether country is selected.
func (s State) Has(country string) bool {
	return slices.Contains(s.Selected, regulation.NormalizeCountry(country))
}

// Equal reports whether both states select the same countries in the same order.
func (s State) Equal(other State) bool {
	return slices.Equal(s.Selected, other.Selected)
}

func normalizeAll(countries []string) []string {
	out := make([]string, len(countries))
	for i, c := range countries {
		out[i] = regulation.NormalizeCountry(c)
	}
	return out
}
