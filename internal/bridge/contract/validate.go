package contract

import "reflect"

// Validate reports whether a payload satisfies a schema. It is pure and
// total: the same inputs always produce the same answer and nothing is
// mutated.
//
// The payload must be a keyed structure (a map with string keys). Every
// declared field must be present with a non-nil value unless it is marked
// optional. Concrete type tags (string, number, boolean) are checked against
// the value's runtime type; unknown-tagged fields are never type-checked.
// Fields present on the payload but absent from the schema are ignored, so
// schemas only constrain what they declare.
func Validate(payload any, schema Schema) bool {
	fields, ok := asKeyedStructure(payload)
	if !ok {
		return false
	}

	for name, field := range schema {
		value, present := fields[name]
		if !present || value == nil {
			if field.Optional {
				continue
			}
			return false
		}
		if !matchesType(value, field.Type) {
			return false
		}
	}
	return true
}

func asKeyedStructure(payload any) (map[string]any, bool) {
	if payload == nil {
		return nil, false
	}
	if m, ok := payload.(map[string]any); ok {
		return m, true
	}
	// Payloads built in-process may use other map value types.
	rv := reflect.ValueOf(payload)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		fields[iter.Key().String()] = iter.Value().Interface()
	}
	return fields, true
}

func matchesType(value any, tag TypeTag) bool {
	switch tag {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNumber:
		return isNumeric(value)
	case TypeUnknown:
		return true
	}
	// Unrecognised tags behave like unknown: declared but unchecked.
	return true
}

// isNumeric accepts every Go numeric kind; decoded JSON yields float64 but
// in-process payloads commonly carry int.
func isNumeric(value any) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
