// Package contract holds the declared application-event schema tables shared
// by both bridge directions, and the validator that checks payloads against
// them. Tables are produced by an external code-generation step; this package
// only consumes the resulting data.
package contract

// TypeTag names the runtime type a schema field constrains its value to.
type TypeTag string

const (
	TypeString  TypeTag = "string"
	TypeNumber  TypeTag = "number"
	TypeBoolean TypeTag = "boolean"
	// TypeUnknown fields are declared but never type-checked.
	TypeUnknown TypeTag = "unknown"
)

// Field describes a single declared payload field.
type Field struct {
	Type     TypeTag `json:"type"`
	Optional bool    `json:"optional"`
}

// Schema maps field names to their declarations for one event.
type Schema map[string]Field

// Table maps declared event names to their schemas for one direction.
type Table map[string]Schema

// Direction identifies which side emitted an envelope.
type Direction string

const (
	HostToGuest Direction = "host_to_guest"
	GuestToHost Direction = "guest_to_host"
)

// Tables holds both per-direction schema tables. Immutable after load.
type Tables struct {
	HostToGuest Table `json:"host_to_guest"`
	GuestToHost Table `json:"guest_to_host"`
}

// ForDirection returns the table constraining events emitted in the given
// direction. Unknown directions yield a nil table, which declares nothing.
func (t Tables) ForDirection(d Direction) Table {
	switch d {
	case HostToGuest:
		return t.HostToGuest
	case GuestToHost:
		return t.GuestToHost
	}
	return nil
}

// Lookup returns the schema declared for an event name, if any.
func (t Table) Lookup(event string) (Schema, bool) {
	schema, ok := t[event]
	return schema, ok
}
