package converter

import (
	"math"
	"reflect"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/idle-economy/internal/models"
)

func sampleSave() *models.SaveData {
	save := models.DefaultSave(models.DefaultCatalog())
	save.Pool[models.Gold] = 123.5
	save.Pool[models.Herbs] = 7
	save.LastSaved = 1735689600000
	herbalist := save.Structures[models.Herbalist]
	herbalist.Workers = append(herbalist.Workers, models.WorkerData{Level: 1, Experience: 40, Skills: models.Harvest})
	herbalist.Running = []bool{true}
	herbalist.Timer = 2.5
	herbalist.Managed = true
	save.Structures[models.Herbalist] = herbalist
	return save
}

func TestSaveProtoRoundTrip(t *testing.T) {
	save := sampleSave()

	st, err := SaveToProto(save)
	if err != nil {
		t.Fatalf("SaveToProto failed: %v", err)
	}

	// survive the binary wire format as well
	raw, err := proto.Marshal(st)
	if err != nil {
		t.Fatalf("proto.Marshal failed: %v", err)
	}
	decoded := &structpb.Struct{}
	if err := proto.Unmarshal(raw, decoded); err != nil {
		t.Fatalf("proto.Unmarshal failed: %v", err)
	}

	got, err := ProtoToSave(decoded)
	if err != nil {
		t.Fatalf("ProtoToSave failed: %v", err)
	}
	if !reflect.DeepEqual(save, got) {
		t.Errorf("Round trip mismatch\nwant: %+v\ngot:  %+v", save, got)
	}
}

func TestSaveToProtoKeepsShortKeys(t *testing.T) {
	st, err := SaveToProto(sampleSave())
	if err != nil {
		t.Fatalf("SaveToProto failed: %v", err)
	}
	for _, key := range []string{"p", "s", "l"} {
		if _, ok := st.GetFields()[key]; !ok {
			t.Errorf("Expected key %q in save struct", key)
		}
	}
}

func TestProtoToSaveEmpty(t *testing.T) {
	save, err := ProtoToSave(&structpb.Struct{})
	if err != nil {
		t.Fatalf("ProtoToSave failed: %v", err)
	}
	if save.Pool == nil || save.Structures == nil {
		t.Error("Expected maps initialized for an empty struct")
	}
}

func TestProtoToSaveRejectsWrongShape(t *testing.T) {
	st, _ := structpb.NewStruct(map[string]any{"p": "lots of gold"})
	if _, err := ProtoToSave(st); err == nil {
		t.Error("Expected error when the pool is not an object")
	}
}

func TestNilConversions(t *testing.T) {
	if _, err := SaveToProto(nil); err == nil {
		t.Error("Expected error for nil save")
	}
	if _, err := ProtoToSave(nil); err == nil {
		t.Error("Expected error for nil struct")
	}
}

func TestNumberField(t *testing.T) {
	st, _ := structpb.NewStruct(map[string]any{
		"seconds": 12.5,
		"name":    "herbalist",
	})
	st.Fields["bad"] = structpb.NewNumberValue(math.Inf(1))

	tests := []struct {
		name    string
		key     string
		want    float64
		wantErr bool
	}{
		{"present", "seconds", 12.5, false},
		{"absent uses default", "missing", 3, false},
		{"not a number", "name", 0, true},
		{"infinite", "bad", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NumberField(st, tt.key, 3)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NumberField(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NumberField(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestStructField(t *testing.T) {
	st, _ := structpb.NewStruct(map[string]any{
		"save":  map[string]any{"l": 1.0},
		"label": "x",
	})

	inner, err := StructField(st, "save")
	if err != nil || inner == nil {
		t.Fatalf("Expected nested struct, got %v (%v)", inner, err)
	}
	if missing, err := StructField(st, "nope"); err != nil || missing != nil {
		t.Errorf("Expected nil for absent field, got %v (%v)", missing, err)
	}
	if _, err := StructField(st, "label"); err == nil {
		t.Error("Expected error for non-object field")
	}
}
