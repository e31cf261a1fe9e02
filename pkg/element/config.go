package element

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Pair is one key/value entry of an ordered mapping.
type Pair struct {
	Key   string
	Value string
}

// Pairs is an ordered string mapping. JSON objects decode in document order
// and entries whose value is not a string are dropped.
type Pairs []Pair

// P builds Pairs from alternating keys and values. A trailing key without a
// value is ignored.
func P(kv ...string) Pairs {
	out := make(Pairs, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Pair{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

// Get returns the value of the first entry with key.
func (p Pairs) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes the pairs as an object, preserving order.
func (p Pairs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
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

// UnmarshalJSON decodes an object in document order.
func (p *Pairs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("element: expected object, got %v", tok)
	}

	out := Pairs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var value string
		if json.Unmarshal(raw, &value) != nil {
			continue
		}
		out = append(out, Pair{Key: key, Value: value})
	}
	*p = out
	return nil
}

// Classes is the tagged classes variant: either a list of tokens added one by
// one, or a literal string that replaces the whole class attribute.
type Classes struct {
	list   []string
	attr   string
	isSet  bool
	isAttr bool
}

// ClassList adds each token to the element's class list.
func ClassList(tokens ...string) Classes {
	return Classes{list: tokens, isSet: true}
}

// ClassAttribute overwrites the element's class attribute with value.
func ClassAttribute(value string) Classes {
	return Classes{attr: value, isSet: true, isAttr: true}
}

// IsSet reports whether classes were configured.
func (c Classes) IsSet() bool { return c.isSet }

// IsAttribute reports whether this is the ClassAttribute variant.
func (c Classes) IsAttribute() bool { return c.isAttr }

// Tokens returns the ClassList tokens.
func (c Classes) Tokens() []string { return c.list }

// Attribute returns the ClassAttribute value.
func (c Classes) Attribute() string { return c.attr }

// MarshalJSON encodes a list as an array and an attribute as a string.
func (c Classes) MarshalJSON() ([]byte, error) {
	switch {
	case !c.isSet:
		return []byte("null"), nil
	case c.isAttr:
		return json.Marshal(c.attr)
	default:
		return json.Marshal(c.list)
	}
}

// UnmarshalJSON accepts an array of strings or a single string. Other shapes
// leave the variant unset.
func (c *Classes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Classes{}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil && list != nil {
		*c = ClassList(list...)
		return nil
	}
	var attr string
	if err := json.Unmarshal(data, &attr); err == nil {
		*c = ClassAttribute(attr)
		return nil
	}
	*c = Classes{}
	return nil
}

// Config is the declarative description of an element. Every field is
// optional; zero values are no-ops.
type Config struct {
	// ID is the element id. Empty selects a random 6 character id.
	ID string `json:"id,omitempty"`

	// Type is the tag name. Empty selects "div".
	Type string `json:"type,omitempty"`

	// Value goes into the value slot of form controls. For other elements it
	// becomes inner markup with whitespace replaced by &nbsp;. It is not
	// escaped.
	Value string `json:"value,omitempty"`

	Placeholder string `json:"placeholder,omitempty"`

	Attrs  Pairs `json:"attrs,omitempty"`
	Styles Pairs `json:"styles,omitempty"`

	Classes Classes `json:"classes"`

	// Disabled is applied only when non-nil.
	Disabled *bool `json:"disabled,omitempty"`

	// Text is appended as a literal text node.
	Text string `json:"text,omitempty"`

	// Children are created and appended in order.
	Children []*Config `json:"children,omitempty"`
}

// Bool returns a pointer to b, for Config.Disabled.
func Bool(b bool) *bool { return &b }

// UnmarshalJSON decodes a configuration record permissively: a key whose
// value has the wrong JSON type is ignored instead of failing the decode.
func (c *Config) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Config
	str := func(key string, dst *string) {
		if raw, ok := fields[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				*dst = s
			}
		}
	}
	str("id", &out.ID)
	str("type", &out.Type)
	str("value", &out.Value)
	str("placeholder", &out.Placeholder)
	str("text", &out.Text)

	if raw, ok := fields["attrs"]; ok {
		var p Pairs
		if p.UnmarshalJSON(raw) == nil {
			out.Attrs = p
		}
	}
	if raw, ok := fields["styles"]; ok {
		var p Pairs
		if p.UnmarshalJSON(raw) == nil {
			out.Styles = p
		}
	}
	if raw, ok := fields["classes"]; ok {
		out.Classes.UnmarshalJSON(raw)
	}
	if raw, ok := fields["disabled"]; ok {
		var b bool
		if json.Unmarshal(raw, &b) == nil && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			out.Disabled = &b
		}
	}
	if raw, ok := fields["children"]; ok {
		var children []*Config
		if json.Unmarshal(raw, &children) == nil {
			out.Children = children
		}
	}

	*c = out
	return nil
}

// clone returns a shallow copy so builders can override Type without touching
// the caller's record.
func (c *Config) clone() *Config {
	if c == nil {
		return &Config{}
	}
	cp := *c
	return &cp
}
