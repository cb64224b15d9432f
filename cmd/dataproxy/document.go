package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kbukum/dataproxy/codec"
	"github.com/kbukum/dataproxy/errors"
	"github.com/kbukum/dataproxy/resourceserver"
)

// Document is a free-form entity keyed by its "ID" or "id" field.
type Document map[string]any

// EntityID returns the document key as text, or "" when it has none.
func (d Document) EntityID() string {
	id, _ := resourceserver.KeyOf(resourceserver.Document(d))
	return id
}

// documentCodecs are the codecs that can carry a Document.
func documentCodecs() []string {
	return []string{"json", "yaml", "toml"}
}

// readDocument decodes --data, or --file ("-" for stdin), with the body codec.
func (a *app) readDocument(data, file string) (Document, error) {
	var raw []byte
	switch {
	case data != "" && file != "":
		return nil, errors.Validation("use either --data or --file, not both")
	case data != "":
		raw = []byte(data)
	case file == "-":
		b, err := io.ReadAll(a.in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		raw = b
	default:
		return nil, errors.MissingField("--data or --file")
	}

	cd, err := codec.ByName(a.cfg.Proxy.Codec)
	if err != nil {
		return nil, errors.InvalidInput("codec", err.Error())
	}
	var doc Document
	if err := cd.Decode(raw, &doc); err != nil || doc == nil {
		return nil, errors.InvalidInput("document", "not a "+cd.Name()+" object")
	}
	return doc, nil
}
