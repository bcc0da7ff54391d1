// Package value implements glox's tagged Value union and its one heap
// Object kind (strings), including the intrusive object list a VM uses
// to free every heap allocation it ever produced in one pass at
// teardown.
//
// There is no garbage collector here and no string interning: objects
// live from the moment they're allocated until the owning VM is
// destroyed. That's a deliberate simplification (spec Non-goals), not
// an oversight — see (*Objects).FreeAll.
package value

import "strconv"

// Kind tags which case of the Value union is populated.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObject
)

// Value is a tagged union over glox's four value kinds. Only the field
// matching Kind is meaningful; opcodes must go through the typed
// constructors/accessors below rather than peeking at the union
// directly, so the representation stays free to change.
type Value struct {
	kind   Kind
	number float64
	boolean bool
	object *Object
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number constructs a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// Obj constructs a Value wrapping a heap Object.
func Obj(o *Object) Value { return Value{kind: KindObject, object: o} }

// Kind reports which case of the union this Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNil, IsBool, IsNumber, IsObject are the typed-accessor guards
// opcodes must check before calling the corresponding As* method.
func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsString reports whether v holds a string Object.
func (v Value) IsString() bool {
	return v.kind == KindObject && v.object.Kind() == ObjKindString
}

// AsBool, AsNumber, AsObject extract the payload of a Value. Calling
// the wrong accessor for the Value's Kind is a programmer error (the
// VM always checks Is* first); they do not panic defensively — opcodes
// are expected to have already type-checked via the Is* guards.
func (v Value) AsBool() bool      { return v.boolean }
func (v Value) AsNumber() float64 { return v.number }
func (v Value) AsObject() *Object { return v.object }

// AsString extracts the Go string backing a string Object value.
func (v Value) AsString() string { return v.object.AsString() }

// IsFalsey reports whether v belongs to the falsey set {nil, false}.
// Every other value, including 0 and the empty string, is truthy.
func (v Value) IsFalsey() bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// Equal implements structural, per-kind equality. Values of differing
// Kind are never equal, even when one might "look like" the other
// (e.g. the number 1 and the string "1").
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return a.number == b.number
	case KindObject:
		return objectsEqual(a.object, b.object)
	default:
		return false
	}
}

// String renders v the way the VM's RETURN opcode prints a final
// result: numbers in shortest-round-trip form, booleans as true/false,
// nil as nil, and strings as their raw bytes with no surrounding
// quotes.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindObject:
		return v.object.String()
	default:
		return "<unknown value>"
	}
}
