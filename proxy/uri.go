package proxy

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/kbukum/dataproxy/errors"
)

// Resource addresses a remote collection.
type Resource struct {
	BaseURI string
}

// Collection returns the collection URI.
func (r Resource) Collection() string {
	return r.BaseURI
}

// URI joins path-escaped segments onto the collection URI.
func (r Resource) URI(segments ...string) string {
	var b strings.Builder
	b.WriteString(r.BaseURI)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// FormatKey renders an entity key as a single path segment. Integers use
// base 10; strings, fmt.Stringer and encoding.TextMarshaler keys are used as
// text. The result is not yet escaped; Resource.URI escapes it.
func FormatKey[K comparable](key K) (string, error) {
	var s string
	switch k := any(key).(type) {
	case encoding.TextMarshaler:
		text, err := k.MarshalText()
		if err != nil {
			return "", errors.InvalidInput("id", err.Error())
		}
		s = string(text)
	case fmt.Stringer:
		s = k.String()
	default:
		v := reflect.ValueOf(key)
		switch v.Kind() {
		case reflect.String:
			s = v.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			s = strconv.FormatInt(v.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			s = strconv.FormatUint(v.Uint(), 10)
		default:
			return "", errors.InvalidInput("id", fmt.Sprintf("unsupported key type %T", key))
		}
	}
	if s == "" {
		return "", errors.InvalidInput("id", "must not be empty")
	}
	return s, nil
}
