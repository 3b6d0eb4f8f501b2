package types

import "encoding/json"

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DestinationKind is the geocoder result type, used to group suggestions.
type DestinationKind string

const (
	KindCountry  DestinationKind = "country"
	KindState    DestinationKind = "state"
	KindCounty   DestinationKind = "county"
	KindCity     DestinationKind = "city"
	KindLocality DestinationKind = "locality"
	KindSuburb   DestinationKind = "suburb"
	KindDistrict DestinationKind = "district"
	KindPostcode DestinationKind = "postcode"
	KindAmenity  DestinationKind = "amenity"
	KindBuilding DestinationKind = "building"
	KindStreet   DestinationKind = "street"
	KindOther    DestinationKind = "other"
)

// Destination is a place returned by the geocoding provider. It is never
// modified after it has been fetched.
type Destination struct {
	PlaceID       string          `json:"placeId"`
	Name          string          `json:"name"`
	FormattedName string          `json:"formattedName"`
	Country       string          `json:"country"`
	CountryCode   string          `json:"countryCode,omitempty"`
	Kind          DestinationKind `json:"kind,omitempty"`
	Coordinates   Coordinates     `json:"coordinates"`
}

// DestinationList is an ordered set of destinations keyed by place id. The
// entry at index 0 is the primary destination.
type DestinationList struct {
	items []Destination
}

// NewDestinationList builds a list from ds, dropping repeated place ids.
func NewDestinationList(ds ...Destination) DestinationList {
	var l DestinationList
	for _, d := range ds {
		l.Add(d)
	}
	return l
}

// Add appends d. Adding a place id already in the list is a no-op and
// reports false.
func (l *DestinationList) Add(d Destination) bool {
	if l.indexOf(d.PlaceID) >= 0 {
		return false
	}
	l.items = append(l.items, d)
	return true
}

// Remove drops the destination with the given place id. When the primary is
// removed the next entry becomes primary.
func (l *DestinationList) Remove(placeID string) bool {
	i := l.indexOf(placeID)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

// SetPrimary moves the destination to index 0, keeping the rest in order.
func (l *DestinationList) SetPrimary(placeID string) bool {
	i := l.indexOf(placeID)
	if i < 0 {
		return false
	}
	if i == 0 {
		return true
	}
	d := l.items[i]
	copy(l.items[1:i+1], l.items[:i])
	l.items[0] = d
	return true
}

// Primary returns the first destination.
func (l DestinationList) Primary() (Destination, bool) {
	if len(l.items) == 0 {
		return Destination{}, false
	}
	return l.items[0], true
}

func (l DestinationList) Len() int { return len(l.items) }

// Items returns a copy of the entries in order.
func (l DestinationList) Items() []Destination {
	out := make([]Destination, len(l.items))
	copy(out, l.items)
	return out
}

// Names returns destination names in order, skipping repeats.
func (l DestinationList) Names() []string {
	seen := make(map[string]struct{}, len(l.items))
	names := make([]string, 0, len(l.items))
	for _, d := range l.items {
		n := d.FormattedName
		if n == "" {
			n = d.Name
		}
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}

func (l DestinationList) indexOf(placeID string) int {
	for i, d := range l.items {
		if d.PlaceID == placeID {
			return i
		}
	}
	return -1
}

func (l DestinationList) MarshalJSON() ([]byte, error) {
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

func (l *DestinationList) UnmarshalJSON(data []byte) error {
	var ds []Destination
	if err := json.Unmarshal(data, &ds); err != nil {
		return err
	}
	*l = NewDestinationList(ds...)
	return nil
}
