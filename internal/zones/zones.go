package zones

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCity is returned when a city ID is not in the catalogue
var ErrUnknownCity = errors.New("unknown city")

// TimeZoneRef identifies a selectable location
type TimeZoneRef struct {
	ID          string `json:"id" mapstructure:"id"`
	DisplayName string `json:"name" mapstructure:"name"`
	IANAZone    string `json:"timezone" mapstructure:"timezone"`
	Flag        string `json:"flag,omitempty" mapstructure:"flag"`
	Country     string `json:"country,omitempty" mapstructure:"country"`
	CountryCode string `json:"country_code" mapstructure:"country_code"`
}

// String returns "Name (Area/City)"
func (z TimeZoneRef) String() string {
	return fmt.Sprintf("%s (%s)", z.DisplayName, z.IANAZone)
}

// All returns a copy of the world city catalogue in display order
func All() []TimeZoneRef {
	out := make([]TimeZoneRef, len(worldCities))
	copy(out, worldCities)
	return out
}

// Lookup finds a city by ID
func Lookup(id string) (TimeZoneRef, error) {
	for _, city := range worldCities {
		if city.ID == id {
			return city, nil
		}
	}
	return TimeZoneRef{}, fmt.Errorf("%w: %q", ErrUnknownCity, id)
}

// LookupName finds a city by display name, case-insensitively
func LookupName(name string) (TimeZoneRef, error) {
	for _, city := range worldCities {
		if strings.EqualFold(city.DisplayName, name) {
			return city, nil
		}
	}
	return TimeZoneRef{}, fmt.Errorf("%w: %q", ErrUnknownCity, name)
}

// LookupMany resolves a list of city IDs or names, preserving order.
// Each entry is tried as an ID first and then as a display name.
func LookupMany(keys []string) ([]TimeZoneRef, error) {
	out := make([]TimeZoneRef, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		city, err := Lookup(key)
		if err != nil {
			city, err = LookupName(key)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, city)
	}
	return out, nil
}

// ParseList splits a comma-separated list of city IDs or names
func ParseList(s string) ([]TimeZoneRef, error) {
	if strings.TrimSpace(s) == "" {
		return []TimeZoneRef{}, nil
	}
	return LookupMany(strings.Split(s, ","))
}

// Defaults returns the default board: New York, London, Tokyo
func Defaults() []TimeZoneRef {
	out := make([]TimeZoneRef, 0, len(defaultCityNames))
	for _, name := range defaultCityNames {
		city, err := LookupName(name)
		if err != nil {
			panic(fmt.Sprintf("default city missing from catalogue: %s", name))
		}
		out = append(out, city)
	}
	return out
}

// CountryCodes returns the distinct country codes of the given zones in order
func CountryCodes(refs []TimeZoneRef) []string {
	seen := make(map[string]bool, len(refs))
	codes := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.CountryCode == "" || seen[ref.CountryCode] {
			continue
		}
		seen[ref.CountryCode] = true
		codes = append(codes, ref.CountryCode)
	}
	return codes
}

// Exclude returns the catalogue entries that are not in selected
func Exclude(selected []TimeZoneRef) []TimeZoneRef {
	taken := make(map[string]bool, len(selected))
	for _, s := range selected {
		taken[s.ID] = true
	}
	out := make([]TimeZoneRef, 0, len(worldCities))
	for _, city := range worldCities {
		if !taken[city.ID] {
			out = append(out, city)
		}
	}
	return out
}
