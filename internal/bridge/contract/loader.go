package contract

import (
	"fmt"
	"os"

	"github.com/hostwire/hostwire/internal/bridge/jsoncodec"
)

// LoadTables decodes a generated schema artifact. The artifact is plain JSON
// data, never generated code: the validator is generic over the loaded
// tables.
func LoadTables(data []byte) (Tables, error) {
	var tables Tables
	if err := jsoncodec.Unmarshal(data, &tables); err != nil {
		return Tables{}, fmt.Errorf("failed to decode contract tables: %w", err)
	}
	if err := checkTags(tables.HostToGuest); err != nil {
		return Tables{}, err
	}
	if err := checkTags(tables.GuestToHost); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

// LoadTablesFile reads and decodes a schema artifact from disk.
func LoadTablesFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read contract tables %q: %w", path, err)
	}
	return LoadTables(data)
}

func checkTags(table Table) error {
	for event, schema := range table {
		for name, field := range schema {
			switch field.Type {
			case TypeString, TypeNumber, TypeBoolean, TypeUnknown:
			default:
				return fmt.Errorf("contract %s: field %s has unknown type tag %q", event, name, field.Type)
			}
		}
	}
	return nil
}
