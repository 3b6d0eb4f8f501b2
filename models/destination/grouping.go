// Package destination groups geocoder suggestions and drives live search
// sessions.
package destination

import "github.com/NomadCrew/nomad-diary-backend/types"

type groupRule struct {
	label string
	kinds []types.DestinationKind
}

var (
	unscopedGroups = []groupRule{
		{label: "Countries", kinds: []types.DestinationKind{types.KindCountry}},
		{label: "Popular Cities", kinds: []types.DestinationKind{types.KindCity, types.KindLocality}},
		{label: "Regions", kinds: []types.DestinationKind{types.KindState, types.KindCounty}},
	}
	scopedGroups = []groupRule{
		{label: "Cities", kinds: []types.DestinationKind{types.KindCity, types.KindLocality}},
		{label: "Attractions", kinds: []types.DestinationKind{types.KindAmenity, types.KindBuilding, types.KindStreet, types.KindOther}},
		{label: "Districts", kinds: []types.DestinationKind{
			types.KindSuburb, types.KindDistrict, types.KindPostcode, types.KindCounty, types.KindState,
		}},
	}
)

// Group sorts items into the fixed group order for the scope. Items whose
// kind has no group are dropped and empty groups are omitted. Provider
// order is kept inside each group.
func Group(items []types.Destination, scoped bool) []types.SuggestionGroup {
	rules := unscopedGroups
	if scoped {
		rules = scopedGroups
	}

	groups := make([]types.SuggestionGroup, 0, len(rules))
	for _, rule := range rules {
		var members []types.Destination
		for _, item := range items {
			if hasKind(rule.kinds, item.Kind) {
				members = append(members, item)
			}
		}
		if len(members) > 0 {
			groups = append(groups, types.SuggestionGroup{Label: rule.label, Items: members})
		}
	}
	return groups
}

// Flatten lists the selectable items of groups in display order.
func Flatten(groups []types.SuggestionGroup) []types.Destination {
	var out []types.Destination
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}

func hasKind(kinds []types.DestinationKind, k types.DestinationKind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}
