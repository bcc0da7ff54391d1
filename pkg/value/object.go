package value

import "strings"

// ObjKind tags which case of the Object union a heap object is. The
// language currently has exactly one: strings. The tag exists anyway
// so that adding a second object kind later doesn't require touching
// every call site that already type-switches on it.
type ObjKind int

const (
	ObjKindString ObjKind = iota
)

// Object is a heap-allocated value. Every Object participates in an
// intrusive singly-linked list rooted in the Objects that allocated it
// (see Objects.link), used purely for bulk deallocation at VM
// teardown — it is never walked for any other reason, and the list
// itself is not part of Object's public surface.
type Object struct {
	kind   ObjKind
	str    string
	next   *Object
}

// Kind reports which case of the Object union this is.
func (o *Object) Kind() ObjKind { return o.kind }

// AsString returns the Go string backing a string Object.
func (o *Object) AsString() string { return o.str }

// String renders the object's raw bytes, matching Value.String's
// contract for object-kind values (no quoting).
func (o *Object) String() string {
	switch o.kind {
	case ObjKindString:
		return o.str
	default:
		return "<object>"
	}
}

func objectsEqual(a, b *Object) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case ObjKindString:
		// Length-then-byte comparison, as spec'd; Go's built-in string
		// equality already does exactly that, so there's nothing extra
		// to hand-roll here.
		return a.str == b.str
	default:
		return false
	}
}

// Objects is the intrusive list of every heap object a single VM has
// allocated, rooted at head. It is the sole owner of those objects:
// nothing frees an Object except a call to FreeAll, and nothing should
// retain a *Object past that call.
type Objects struct {
	head *Object
}

// link allocates obj onto the front of the list (append-at-head, in
// allocation order) and returns it. Every object constructor in this
// package must route through link so the owning VM can free it in
// bulk; constructing an *Object any other way is a contract violation
// (the object would leak past VM teardown).
func (objs *Objects) link(obj *Object) *Object {
	obj.next = objs.head
	objs.head = obj
	return obj
}

// NewString copies bytes into a freshly allocated string Object linked
// into objs.
func (objs *Objects) NewString(s string) *Object {
	return objs.link(&Object{kind: ObjKindString, str: strings.Clone(s)})
}

// TakeString adopts an already-owned string into a freshly allocated
// Object linked into objs, without copying. Used by the VM after
// concatenation has already produced a buffer nothing else references.
func (objs *Objects) TakeString(s string) *Object {
	return objs.link(&Object{kind: ObjKindString, str: s})
}

// FreeAll drops every object linked into objs. Go's garbage collector
// reclaims the memory once nothing references it; this call exists to
// make that moment explicit and to sever the list so a reused VM
// starts the next interpretation with an empty object list, matching
// the "object list freed en masse at VM teardown" contract even though
// there is no manual memory management underneath it.
func (objs *Objects) FreeAll() {
	objs.head = nil
}
