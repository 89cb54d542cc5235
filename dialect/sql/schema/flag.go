package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Flag is a tri-state switch. Unset means the clause it controls is not
// emitted at all.
type Flag uint8

// Flag values.
const (
	Unset Flag = iota
	True
	False
)

// FlagOf returns True or False.
func FlagOf(b bool) Flag {
	if b {
		return True
	}
	return False
}

// IsSet reports whether f is True or False.
func (f Flag) IsSet() bool { return f != Unset }

// Bool reports whether f is True.
func (f Flag) Bool() bool { return f == True }

func (f Flag) String() string {
	switch f {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unset"
	}
}

// UnmarshalYAML decodes a boolean scalar. A null leaves the flag unset.
func (f *Flag) UnmarshalYAML(n *yaml.Node) error {
	if n.Tag == "!!null" {
		*f = Unset
		return nil
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return fmt.Errorf("schema: flag: %w", err)
	}
	*f = FlagOf(b)
	return nil
}
