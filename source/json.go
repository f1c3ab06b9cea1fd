package source

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/recordkit"
)

// JSON decodes one JSON document keeping object key order. Numbers are kept
// as json.Number so integer precision survives until coercion.
func JSON(data []byte) (any, error) {
	return NewJSONReader(bytes.NewReader(data)).Next()
}

// JSONReader decodes a stream of JSON documents through the token API.
type JSONReader struct {
	dec *json.Decoder
}

// NewJSONReader wraps r.
func NewJSONReader(r io.Reader) *JSONReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONReader{dec: dec}
}

// Next returns the next document, or (nil, io.EOF) at the end of the stream.
func (s *JSONReader) Next() (any, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return nil, err
	}
	return s.value(tok)
}

func (s *JSONReader) value(tok json.Token) (any, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return s.object()
		case '[':
			return s.array()
		}
		return nil, fmt.Errorf("json: unexpected delimiter %q", rune(v))
	case json.Number:
		return stdjson.Number(v.String()), nil
	case string, bool, nil:
		return v, nil
	case float64:
		return v, nil
	}
	return nil, fmt.Errorf("json: unexpected token %T", tok)
}

func (s *JSONReader) object() (any, error) {
	m := recordkit.NewMapping(0)
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("json: expected object key, got %v", tok)
		}
		if m.Has(key) {
			return nil, &DuplicateKeyError{Key: key}
		}
		vt, err := s.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		val, err := s.value(vt)
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
}

func (s *JSONReader) array() (any, error) {
	arr := []any{}
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}
		val, err := s.value(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
