package codec

import "github.com/goccy/go-yaml"

// YAML returns the YAML codec.
func YAML() Codec {
	return &format{
		name:      "yaml",
		mediaType: "application/yaml",
		accepted:  []string{"application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml"},
		suffix:    "+yaml",
		marshal:   yaml.Marshal,
		unmarshal: func(data []byte, v any) error { return yaml.Unmarshal(data, v) },
	}
}
