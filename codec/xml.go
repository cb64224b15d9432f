package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"reflect"
)

// XML returns the XML codec. Slices are wrapped in an <items> root element.
func XML() Codec {
	return &format{
		name:      "xml",
		mediaType: "application/xml",
		accepted:  []string{"application/xml", "text/xml"},
		suffix:    "+xml",
		marshal:   marshalXML,
		unmarshal: unmarshalXML,
	}
}

func marshalXML(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !isSequence(rv) {
		return xml.Marshal(v)
	}
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	var buf bytes.Buffer
	buf.WriteString("<" + collectionKey + ">")
	for i := 0; i < rv.Len(); i++ {
		item, err := xml.Marshal(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		buf.Write(item)
	}
	buf.WriteString("</" + collectionKey + ">")
	return buf.Bytes(), nil
}

// unmarshalXML decodes every child of the root element into a new slice
// element when v points to a slice.
func unmarshalXML(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || !isSequence(rv.Elem()) || rv.Elem().Kind() != reflect.Slice {
		return xml.Unmarshal(data, v)
	}

	slice := rv.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, 0)
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				depth++
				continue
			}
			item := reflect.New(slice.Type().Elem())
			if err := dec.DecodeElement(item.Interface(), &t); err != nil {
				return err
			}
			out = reflect.Append(out, item.Elem())
		case xml.EndElement:
			depth--
		}
	}
	slice.Set(out)
	return nil
}
