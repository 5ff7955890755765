package models

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Label is either a PlainLabel or a NamedLabel. GitHub returns both shapes
// in issue payloads; only NamedLabel carries a name the directory acts on.
type Label interface {
	isLabel()
}

// PlainLabel is a label given as a bare string.
type PlainLabel string

func (PlainLabel) isLabel() {}

// NamedLabel is a label object. Name may be empty.
type NamedLabel struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

func (NamedLabel) isLabel() {}

// Labels is an ordered list of labels, decoded from a JSON array that may
// mix strings and objects.
type Labels []Label

// Named builds a Labels list of NamedLabel entries.
func Named(names ...string) Labels {
	labels := make(Labels, 0, len(names))
	for _, name := range names {
		labels = append(labels, NamedLabel{Name: name})
	}
	return labels
}

// Names returns the non-empty names of all NamedLabel entries.
func (l Labels) Names() []string {
	names := make([]string, 0, len(l))
	for _, label := range l {
		switch v := label.(type) {
		case NamedLabel:
			if v.Name != "" {
				names = append(names, v.Name)
			}
		case *NamedLabel:
			if v != nil && v.Name != "" {
				names = append(names, v.Name)
			}
		case PlainLabel:
		}
	}
	return names
}

// UnmarshalJSON decodes each element as a PlainLabel or a NamedLabel.
func (l *Labels) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode labels: %w", err)
	}

	labels := make(Labels, 0, len(raw))
	for _, element := range raw {
		element = bytes.TrimSpace(element)
		if len(element) == 0 || bytes.Equal(element, []byte("null")) {
			continue
		}
		if element[0] == '"' {
			var s string
			if err := json.Unmarshal(element, &s); err != nil {
				return fmt.Errorf("failed to decode label: %w", err)
			}
			labels = append(labels, PlainLabel(s))
			continue
		}
		var named NamedLabel
		if err := json.Unmarshal(element, &named); err != nil {
			return fmt.Errorf("failed to decode label: %w", err)
		}
		labels = append(labels, named)
	}

	*l = labels
	return nil
}

// MarshalJSON encodes labels back into the mixed string/object shape.
func (l Labels) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(l))
	for _, label := range l {
		switch v := label.(type) {
		case PlainLabel:
			out = append(out, string(v))
		case NamedLabel:
			out = append(out, v)
		case *NamedLabel:
			if v != nil {
				out = append(out, *v)
			}
		}
	}
	return json.Marshal(out)
}
