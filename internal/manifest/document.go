// Package manifest edits JSON dependency manifests such as composer.json
// while keeping key order and indentation intact.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/conn-castle/ladder/internal/messages"
)

const defaultIndent = "    "

// object is a JSON object that remembers key order.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: make(map[string]any)}
}

func (o *object) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Document is a parsed JSON manifest. Values are *object, []any, json.Number,
// string, bool, or nil.
type Document struct {
	root   *object
	indent string
}

// Parse decodes data into a Document. The root value must be an object.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestDecodeFmt, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf(messages.ManifestRootNotObject)
	}
	root, err := decodeObject(dec)
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestDecodeFmt, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf(messages.ManifestTrailingData)
	}
	return &Document{root: root, indent: detectIndent(data)}, nil
}

func decodeObject(dec *json.Decoder) (*object, error) {
	obj := newObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	items := []any{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", v)
		}
	default:
		return v, nil
	}
}

// detectIndent returns the leading whitespace of the first indented line.
func detectIndent(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || len(trimmed) == len(line) {
			continue
		}
		return line[:len(line)-len(trimmed)]
	}
	return defaultIndent
}

// lookup walks path and returns the value it names.
func (d *Document) lookup(path []string) (any, bool) {
	var current any = d.root
	for _, key := range path {
		obj, ok := current.(*object)
		if !ok {
			return nil, false
		}
		current, ok = obj.values[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String returns the string value at path.
func (d *Document) String(path ...string) (string, bool) {
	value, ok := d.lookup(path)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// Has reports whether a value exists at path.
func (d *Document) Has(path ...string) bool {
	_, ok := d.lookup(path)
	return ok
}

// Keys returns the keys of the object at path in document order.
func (d *Document) Keys(path ...string) []string {
	value, ok := d.lookup(path)
	if !ok {
		return nil
	}
	obj, ok := value.(*object)
	if !ok {
		return nil
	}
	return append([]string(nil), obj.keys...)
}

// SetString replaces the string at path and returns the previous value.
// Only existing string values are replaced; missing keys are left alone.
func (d *Document) SetString(value string, path ...string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	parent, ok := d.lookup(path[:len(path)-1])
	if !ok {
		return "", false
	}
	obj, ok := parent.(*object)
	if !ok {
		return "", false
	}
	key := path[len(path)-1]
	old, ok := obj.values[key].(string)
	if !ok {
		return "", false
	}
	obj.values[key] = value
	return old, true
}

// Bytes serializes the document with its original indentation and a trailing newline.
func (d *Document) Bytes() ([]byte, error) {
	var compact bytes.Buffer
	if err := writeValue(&compact, d.root); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", d.indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Decode unmarshals the value at path into target.
func (d *Document) Decode(target any, path ...string) error {
	value, ok := d.lookup(path)
	if !ok {
		return fmt.Errorf(messages.ManifestPathMissingFmt, strings.Join(path, "."))
	}
	var buf bytes.Buffer
	if err := writeValue(&buf, value); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), target)
}

func writeValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *object:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, v.values[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, v)
	}
}

// writeScalar encodes without HTML escaping so URLs and constraints such as
// "<2.0" survive unchanged.
func writeScalar(buf *bytes.Buffer, value any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}
