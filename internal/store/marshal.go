package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/graphcalc/internal/ir"
)

// marshalObject converts an IRObject to canonical JSON TEXT for storage.
// Canonical JSON keeps the stored bytes, and therefore the checksum,
// independent of map iteration order.
func marshalObject(field string, obj ir.IRObject) (string, error) {
	if obj == nil {
		obj = ir.IRObject{}
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", field, err)
	}
	return string(data), nil
}

// unmarshalObject parses canonical JSON TEXT to IRObject. Integers go
// through json.Number, so values above 2^53 survive.
func unmarshalObject(field, data string) (ir.IRObject, error) {
	if data == "" || data == "{}" {
		return ir.IRObject{}, nil
	}
	var obj ir.IRObject
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", field, err)
	}
	return obj, nil
}
