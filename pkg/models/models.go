package models

import "strconv"

// Kind identifies which field of a Value is populated
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

// Value is a single extracted cell: a string, a boolean, or an integer timestamp
type Value struct {
	Kind Kind
	Str  string
	Bool bool
	Int  int64
}

// String builds a string value
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool builds a boolean value
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int builds an integer value
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// String renders the value the way it is written to tabular exports
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	default:
		return v.Str
	}
}

// Interface returns the value as a plain Go value (string, bool or int64)
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	default:
		return v.Str
	}
}

// Field is one named cell of a Record
type Field struct {
	Name  string
	Value Value
}

// Record is one extracted result. Fields keep the declaration order of the
// ruleset that produced them.
type Record struct {
	Fields []Field
}

// Get returns the value stored under name
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Names returns the field names in order
func (r Record) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Values returns the field values in order
func (r Record) Values() []Value {
	values := make([]Value, len(r.Fields))
	for i, f := range r.Fields {
		values[i] = f.Value
	}
	return values
}
