// Package store maps normalized JSON-LD items onto flat store records and
// provides the orderings applied to the final output.
package store

import (
	"errors"
	"sort"
	"strings"

	"github.com/JakeFAU/store-locations/internal/jsonld"
)

// ErrNoBusiness means none of a page's items is a LocalBusiness.
var ErrNoBusiness = errors.New("no business entity")

// OpeningHours is one openingHoursSpecification entry.
type OpeningHours struct {
	DayOfWeek string  `json:"dayOfWeek"`
	Opens     *string `json:"opens"`
	Closes    *string `json:"closes"`
}

// Record is a single store location. Pointer fields are null when the page
// does not provide a usable value.
type Record struct {
	Ref          *string        `json:"ref"`
	Name         *string        `json:"name"`
	URL          *string        `json:"url"`
	Phone        *string        `json:"phone"`
	Address      *string        `json:"address"`
	Locality     *string        `json:"locality"`
	Postcode     *string        `json:"postcode"`
	Country      *string        `json:"country"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	OpeningHours []OpeningHours `json:"openingHours"`
	Services     []string       `json:"services"`
}

// RefKey is the sort key of the record: its ref, or "" when absent.
func (r Record) RefKey() string {
	if r.Ref == nil {
		return ""
	}
	return *r.Ref
}

// DisplayName returns the store name or "Unknown".
func (r Record) DisplayName() string {
	if r.Name == nil || *r.Name == "" {
		return "Unknown"
	}
	return *r.Name
}

// Build scans items once. The first business item supplies the record; each
// service item with a non-empty serviceType adds a service. ok is false when
// no business item is present.
func Build(items []jsonld.Item) (Record, bool) {
	var (
		business *jsonld.Item
		services []string
	)
	for i := range items {
		item := items[i]
		switch item.Kind {
		case jsonld.KindBusiness:
			if business == nil {
				business = &items[i]
			}
		case jsonld.KindService:
			if name, ok := jsonld.String(item.Get("serviceType")); ok && name != "" {
				services = append(services, name)
			}
		}
	}
	if business == nil {
		return Record{}, false
	}

	fields := business.Fields
	rec := Record{
		Ref:          stringField(fields, "@id"),
		Name:         stringField(fields, "name"),
		URL:          stringField(fields, "url"),
		Phone:        stringField(fields, "telephone"),
		Address:      stringField(fields, "address", "streetAddress"),
		Locality:     stringField(fields, "address", "addressLocality"),
		Postcode:     stringField(fields, "address", "postalCode"),
		Country:      stringField(fields, "address", "addressCountry", "name"),
		Latitude:     floatField(fields, "geo", "latitude"),
		Longitude:    floatField(fields, "geo", "longitude"),
		OpeningHours: openingHours(fields["openingHoursSpecification"]),
		Services:     distinctSorted(services),
	}
	return rec, true
}

func stringField(fields map[string]any, keys ...string) *string {
	v, ok := jsonld.Path(fields, keys...)
	if !ok {
		return nil
	}
	s, ok := jsonld.String(v)
	if !ok {
		return nil
	}
	return &s
}

func floatField(fields map[string]any, keys ...string) *float64 {
	v, ok := jsonld.Path(fields, keys...)
	if !ok {
		return nil
	}
	f, ok := jsonld.Float(v)
	if !ok {
		return nil
	}
	return &f
}

func openingHours(raw any) []OpeningHours {
	entries := jsonld.Objects(raw)
	hours := make([]OpeningHours, 0, len(entries))
	for _, entry := range entries {
		day, _ := jsonld.String(entry["dayOfWeek"])
		hours = append(hours, OpeningHours{
			DayOfWeek: lastSegment(day),
			Opens:     stringField(entry, "opens"),
			Closes:    stringField(entry, "closes"),
		})
	}
	return hours
}

// lastSegment keeps the part after the final slash, so schema.org URIs such as
// https://schema.org/Monday become Monday.
func lastSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func distinctSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
