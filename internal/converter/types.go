// Package converter provides conversions between proto and model types
package converter

import (
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/idle-economy/internal/models"
)

// SaveToProto converts save data to a protobuf Struct. The Struct keeps the
// same short keys as the JSON save format.
func SaveToProto(save *models.SaveData) (*structpb.Struct, error) {
	if save == nil {
		return nil, fmt.Errorf("nil save data")
	}
	raw, err := json.Marshal(save)
	if err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode save fields: %w", err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build save struct: %w", err)
	}
	return st, nil
}

// ProtoToSave converts a protobuf Struct back into save data
func ProtoToSave(st *structpb.Struct) (*models.SaveData, error) {
	if st == nil {
		return nil, fmt.Errorf("nil save struct")
	}
	raw, err := st.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode save struct: %w", err)
	}
	save := &models.SaveData{}
	if err := json.Unmarshal(raw, save); err != nil {
		return nil, fmt.Errorf("invalid save struct: %w", err)
	}
	if save.Pool == nil {
		save.Pool = make(map[models.ResourceType]float64)
	}
	if save.Structures == nil {
		save.Structures = make(map[models.StructureType]models.StructureData)
	}
	return save, nil
}

// NumberField reads a numeric field, returning def if absent.
// Non-numeric or non-finite values are an error.
func NumberField(st *structpb.Struct, key string, def float64) (float64, error) {
	if st == nil {
		return def, nil
	}
	v, ok := st.GetFields()[key]
	if !ok || v == nil {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", key)
	}
	if math.IsNaN(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return 0, fmt.Errorf("field %q must be finite", key)
	}
	return n.NumberValue, nil
}

// StructField reads a nested Struct field, nil if absent
func StructField(st *structpb.Struct, key string) (*structpb.Struct, error) {
	if st == nil {
		return nil, nil
	}
	v, ok := st.GetFields()[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		return nil, fmt.Errorf("field %q must be an object", key)
	}
	return s.StructValue, nil
}
