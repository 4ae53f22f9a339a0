package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// PropertyValue is the typed value of one record field. A nil Title or
// RichText means the field is absent; an empty slice means it is present
// but empty.
type PropertyValue struct {
	ID       string     `json:"id,omitempty"`
	Type     string     `json:"type,omitempty"`
	Title    []RichText `json:"title"`
	RichText []RichText `json:"rich_text"`

	// raw keeps the decoded object so unknown property types survive
	// a cache round trip.
	raw json.RawMessage
}

func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	type plain PropertyValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = PropertyValue(p)
	v.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (v PropertyValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) > 0 {
		return v.raw, nil
	}
	type plain PropertyValue
	return json.Marshal(plain(v))
}

type Property struct {
	Name  string
	Value PropertyValue
}

// Properties is a record's field map in declaration order.
type Properties []Property

// Get returns the value of the named property.
func (ps Properties) Get(name string) (PropertyValue, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return PropertyValue{}, false
}

// Title returns the Name property's title, falling back to the first
// property of type title.
func (ps Properties) Title() []RichText {
	if v, ok := ps.Get("Name"); ok && v.Title != nil {
		return v.Title
	}
	for _, p := range ps {
		if p.Value.Type == "title" {
			return p.Value.Title
		}
	}
	return nil
}

// Reversed returns the properties in reverse declaration order.
func (ps Properties) Reversed() Properties {
	out := make(Properties, len(ps))
	for i, p := range ps {
		out[len(ps)-1-i] = p
	}
	return out
}

var errPropertiesNotObject = errors.New("properties: expected a JSON object")

// UnmarshalJSON decodes the properties object keeping key order, which
// encoding/json maps cannot do.
func (ps *Properties) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*ps = nil
		return nil
	}
	if !res.IsObject() {
		return errPropertiesNotObject
	}
	out := Properties{}
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		var v PropertyValue
		if e := json.Unmarshal([]byte(value.Raw), &v); e != nil {
			err = fmt.Errorf("property %q: %w", key.String(), e)
			return false
		}
		out = append(out, Property{Name: key.String(), Value: v})
		return true
	})
	if err != nil {
		return err
	}
	*ps = out
	return nil
}

func (ps Properties) MarshalJSON() ([]byte, error) {
	if ps == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
