package model

// Constructor builds a fresh, unattached instance for a given id. Domain
// packages call RegisterClass during init() so the deserializer can turn a
// "type" (or "subtype", when present) string back into a live instance.
type Constructor func(id string) Model

var classRegistry = map[string]Constructor{}

// RegisterClass associates a type tag with a constructor. Registering the
// same tag twice replaces the previous constructor; this mirrors a module
// being reloaded rather than two unrelated types colliding, and keeps
// registration panic-free for table-driven tests that re-register fixtures.
func RegisterClass(typeTag string, ctor Constructor) {
	classRegistry[typeTag] = ctor
}

// GetClass looks up the constructor for a type tag.
func GetClass(typeTag string) (Constructor, bool) {
	ctor, ok := classRegistry[typeTag]
	return ctor, ok
}
