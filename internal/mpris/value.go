package mpris

import (
	"github.com/godbus/dbus/v5"
)

// Value is a property value carrying its wire type from the moment it is
// built. Tagging at construction removes any need for runtime type
// inference later; in particular a Bool can never be confused with an Int64,
// which matters because the wire schema does not treat booleans as numbers.
type Value struct {
	sig string
	v   any
}

// String builds a string-typed value ("s").
func String(s string) Value { return Value{"s", s} }

// Bool builds a boolean-typed value ("b").
func Bool(b bool) Value { return Value{"b", b} }

// Double builds a double-typed value ("d").
func Double(f float64) Value { return Value{"d", f} }

// Int64 builds a 64-bit-integer-typed value ("x").
func Int64(i int64) Value { return Value{"x", i} }

// StringList builds a string-array-typed value ("as").
func StringList(ss ...string) Value {
	out := make([]string, len(ss))
	copy(out, ss)
	return Value{"as", out}
}

// Path builds an object-path-typed value ("o").
func Path(p dbus.ObjectPath) Value { return Value{"o", p} }

// Dict builds a variant-dictionary-typed value ("a{sv}").
func Dict(m map[string]Value) Value { return Value{"a{sv}", m} }

// IsZero reports whether v is the zero Value (no type tag).
func (v Value) IsZero() bool { return v.sig == "" }

// Signature returns the D-Bus type signature of the value.
func (v Value) Signature() string { return v.sig }

// Variant converts the value into a dbus.Variant for wire transfer.
// Dictionaries become variant maps so nested values keep their own tags.
func (v Value) Variant() dbus.Variant {
	if v.sig == "a{sv}" {
		m := v.v.(map[string]Value)
		out := make(map[string]dbus.Variant, len(m))
		for k, inner := range m {
			out[k] = inner.Variant()
		}
		return dbus.MakeVariant(out)
	}
	return dbus.MakeVariant(v.v)
}

// Equal reports structural equality. This is the comparison the change
// notifier uses to suppress redundant notifications.
func (v Value) Equal(o Value) bool {
	if v.sig != o.sig {
		return false
	}
	switch v.sig {
	case "as":
		a, b := v.v.([]string), o.v.([]string)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case "a{sv}":
		a, b := v.v.(map[string]Value), o.v.(map[string]Value)
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	default:
		return v.v == o.v
	}
}

// variantTable converts a property table for wire transfer.
func variantTable(props map[string]Value) map[string]dbus.Variant {
	out := make(map[string]dbus.Variant, len(props))
	for name, v := range props {
		out[name] = v.Variant()
	}
	return out
}
