// Package codec serializes entities to and from request and response bodies.
//
// JSON is the default. XML, YAML and TOML are available by name:
//
//	c, err := codec.ByName("yaml")
//
// A codec reports which declared content types it can decode through Accepts;
// an empty content type is always accepted and treated as the codec's own.
package codec

import (
	"fmt"
	"mime"
	"slices"
	"sort"
	"strings"
)

// Codec encodes request bodies and decodes response bodies.
type Codec interface {
	// Name is the short name used in configuration, e.g. "json".
	Name() string
	// MediaType is sent as Content-Type and Accept.
	MediaType() string
	// Accepts reports whether a body of the given content type can be decoded.
	Accepts(contentType string) bool
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// format implements Codec from a pair of functions and the media types it
// recognizes.
type format struct {
	name      string
	mediaType string
	accepted  []string
	suffix    string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func (f *format) Name() string      { return f.name }
func (f *format) MediaType() string { return f.mediaType }

func (f *format) Accepts(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if slices.Contains(f.accepted, mt) {
		return true
	}
	return f.suffix != "" && strings.HasSuffix(mt, f.suffix)
}

func (f *format) Encode(v any) ([]byte, error) {
	data, err := f.marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec/%s: encode: %w", f.name, err)
	}
	return data, nil
}

func (f *format) Decode(data []byte, v any) error {
	if err := f.unmarshal(data, v); err != nil {
		return fmt.Errorf("codec/%s: decode: %w", f.name, err)
	}
	return nil
}

var registry = map[string]func() Codec{
	"json": JSON,
	"xml":  XML,
	"yaml": YAML,
	"toml": TOML,
}

// Default returns the JSON codec.
func Default() Codec { return JSON() }

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ForContentType returns the first codec accepting a non-empty content type.
// JSON is tried first.
func ForContentType(contentType string) (Codec, bool) {
	if strings.TrimSpace(contentType) == "" {
		return nil, false
	}
	for _, name := range []string{"json", "xml", "yaml", "toml"} {
		c := registry[name]()
		if c.Accepts(contentType) {
			return c, true
		}
	}
	return nil, false
}
