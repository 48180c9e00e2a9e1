package command

import (
	"fmt"
	"strings"
)

// EnumValue is a cli.Generic flag value restricted to a fixed set of
// strings, used for --log and similar closed-choice flags.
type EnumValue struct {
	Enum    []string
	Default string
	// ConditionFunction checks whether a candidate enum value matches the
	// value passed to Set. Defaults to plain string equality.
	ConditionFunction func(str, target string) bool
	selected          string
}

func (e *EnumValue) Set(value string) error {
	if e.ConditionFunction == nil {
		e.ConditionFunction = func(str, target string) bool {
			return str == target
		}
	}
	for _, enum := range e.Enum {
		if e.ConditionFunction(enum, value) {
			e.selected = value
			return nil
		}
	}

	return fmt.Errorf("allowed values: [%s]", strings.Join(e.Enum, ", "))
}

func (e EnumValue) String() string {
	if e.selected == "" {
		return e.Default
	}
	return e.selected
}

func (e EnumValue) Get() interface{} {
	return e
}
