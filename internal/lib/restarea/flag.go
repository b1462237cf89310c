package restarea

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Flag is a boolean amenity flag decoded from any of the catalog's
// representations. Decoding goes through NormalizeFlag, so every reader of a
// Flag sees the same answer.
type Flag bool

// NormalizeFlag treats true, the number 1 and the string "1" as true.
// Everything else, including nil, "true" and 2, is false.
func NormalizeFlag(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "1"
	case int:
		return x == 1
	case int64:
		return x == 1
	case int32:
		return x == 1
	case uint:
		return x == 1
	case uint64:
		return x == 1
	case float64:
		return x == 1
	case float32:
		return x == 1
	case json.Number:
		return x.String() == "1"
	case Flag:
		return bool(x)
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Flag(NormalizeFlag(v))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	*f = Flag(NormalizeFlag(v))
	return nil
}
