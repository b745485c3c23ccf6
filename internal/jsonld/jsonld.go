// Package jsonld locates the JSON-LD block embedded in a store page and
// normalizes its single-object, list and @graph shapes into a flat item list.
package jsonld

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Markers delimiting the structured-data block.
const (
	OpenMarker  = `<script type="application/ld+json">`
	CloseMarker = `</script>`

	graphKey = "@graph"
	typeKey  = "@type"
)

// Schema.org types the builder cares about.
const (
	TypeLocalBusiness = "LocalBusiness"
	TypeService       = "Service"
)

var (
	// ErrNoBlock means the page carries no JSON-LD block. Some pages legitimately lack one.
	ErrNoBlock = errors.New("no json-ld block")
	// ErrDecode means a block was found but its content is not valid JSON.
	ErrDecode = errors.New("decode json-ld")
)

// Kind discriminates the items the record builder distinguishes.
type Kind int

// Item kinds.
const (
	KindOther Kind = iota
	KindBusiness
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindService:
		return "service"
	default:
		return "other"
	}
}

// Item is one JSON-LD object tagged with its kind.
type Item struct {
	Kind   Kind
	Type   string
	Fields map[string]any
}

// NewItem tags a decoded object by its @type.
func NewItem(fields map[string]any) Item {
	typ, _ := String(fields[typeKey])
	item := Item{Type: typ, Fields: fields}
	switch typ {
	case TypeLocalBusiness:
		item.Kind = KindBusiness
	case TypeService:
		item.Kind = KindService
	}
	return item
}

// Get returns the raw value stored under key.
func (i Item) Get(key string) any {
	return i.Fields[key]
}

// Extract finds the first JSON-LD block in html and returns its items.
// It returns ErrNoBlock when either marker is missing and an error wrapping
// ErrDecode when the block is not valid JSON.
func Extract(html string) ([]Item, error) {
	raw, ok := Block(html)
	if !ok {
		return nil, ErrNoBlock
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return Normalize(decoded), nil
}

// Block returns the text between the first open marker and the next close marker.
func Block(html string) (string, bool) {
	start := strings.Index(html, OpenMarker)
	if start < 0 {
		return "", false
	}
	start += len(OpenMarker)
	end := strings.Index(html[start:], CloseMarker)
	if end < 0 {
		return "", false
	}
	return html[start : start+end], true
}

// Normalize flattens a decoded JSON-LD value: an object holding @graph yields
// the graph entries, a list yields its entries, anything else yields itself.
// Entries that are not objects are dropped.
func Normalize(decoded any) []Item {
	var entries []any
	switch v := decoded.(type) {
	case map[string]any:
		if graph, ok := v[graphKey]; ok {
			if list, isList := graph.([]any); isList {
				entries = list
			} else {
				entries = []any{graph}
			}
		} else {
			entries = []any{v}
		}
	case []any:
		entries = v
	default:
		entries = []any{v}
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range Objects(entries) {
		items = append(items, NewItem(entry))
	}
	return items
}
