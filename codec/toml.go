package codec

import (
	"reflect"

	"github.com/pelletier/go-toml/v2"
)

// collectionKey holds top-level sequences, which a TOML document cannot
// represent directly.
const collectionKey = "items"

// TOML returns the TOML codec. Slices are carried as an array of tables
// under the "items" key.
func TOML() Codec {
	return &format{
		name:      "toml",
		mediaType: "application/toml",
		accepted:  []string{"application/toml", "text/toml", "text/x-toml"},
		marshal:   marshalTOML,
		unmarshal: unmarshalTOML,
	}
}

func marshalTOML(v any) ([]byte, error) {
	if isSequence(reflect.ValueOf(v)) {
		return toml.Marshal(map[string]any{collectionKey: v})
	}
	return toml.Marshal(v)
}

func unmarshalTOML(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && isSequence(rv.Elem()) {
		// Decode into a struct whose single field has the target's type.
		holder := reflect.New(reflect.StructOf([]reflect.StructField{{
			Name: "Items",
			Type: rv.Elem().Type(),
			Tag:  reflect.StructTag(`toml:"` + collectionKey + `"`),
		}}))
		if err := toml.Unmarshal(data, holder.Interface()); err != nil {
			return err
		}
		rv.Elem().Set(holder.Elem().Field(0))
		return nil
	}
	return toml.Unmarshal(data, v)
}

func isSequence(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Array {
		return true
	}
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() != reflect.Uint8
}
