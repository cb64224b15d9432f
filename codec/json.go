package codec

import "github.com/bytedance/sonic"

// JSON returns the JSON codec. It accepts application/json and any +json
// media type.
func JSON() Codec {
	return &format{
		name:      "json",
		mediaType: "application/json",
		accepted:  []string{"application/json", "text/json"},
		suffix:    "+json",
		marshal:   sonic.ConfigStd.Marshal,
		unmarshal: sonic.ConfigStd.Unmarshal,
	}
}
