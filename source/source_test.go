package source

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/recordkit"
)

func TestYAML_KeepsKeyOrderAndScalarTypes(t *testing.T) {
	v, err := YAML([]byte("z: 1\na: 2.5\nm: [x, true, null]\nq: \"3\"\n"))
	require.NoError(t, err)
	m := v.(*recordkit.Mapping)
	assert.Equal(t, []string{"z", "a", "m", "q"}, m.Keys())
	assert.Equal(t, map[string]any{
		"z": int64(1),
		"a": 2.5,
		"m": []any{"x", true, nil},
		"q": "3",
	}, m.Plain())
}

func TestYAML_Empty(t *testing.T) {
	v, err := YAML(nil)
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestYAML_DuplicateKey(t *testing.T) {
	_, err := YAML([]byte("a: 1\nb: 2\na: 3\n"))
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Key)
	assert.Equal(t, 1, dup.FirstLine)
	assert.Equal(t, 3, dup.Line)
	assert.Contains(t, err.Error(), `duplicate key "a" at 3:1`)
}

func TestYAML_MergeKeys(t *testing.T) {
	doc := `base: &base
  repetitions: 3
  early_stop: false
run:
  <<: *base
  early_stop: true
`
	v, err := YAML([]byte(doc))
	require.NoError(t, err)
	run, _ := v.(*recordkit.Mapping).Get("run")
	rm := run.(*recordkit.Mapping)
	assert.Equal(t, []string{"repetitions", "early_stop"}, rm.Keys())
	es, _ := rm.Get("early_stop")
	assert.Equal(t, true, es)
}

func TestYAMLReader_MultipleDocuments(t *testing.T) {
	docs, err := NewYAMLReader(strings.NewReader("a: 1\n---\nb: 2\n")).ReadAll()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []string{"b"}, docs[1].(*recordkit.Mapping).Keys())
}

func TestJSON_KeepsOrderAndNumbers(t *testing.T) {
	v, err := JSON([]byte(`{"z": 12345678901234567, "a": [1.5, "x", null, false], "o": {}}`))
	require.NoError(t, err)
	m := v.(*recordkit.Mapping)
	assert.Equal(t, []string{"z", "a", "o"}, m.Keys())
	z, _ := m.Get("z")
	assert.Equal(t, stdjson.Number("12345678901234567"), z)
	a, _ := m.Get("a")
	assert.Equal(t, []any{stdjson.Number("1.5"), "x", nil, false}, a)
	o, _ := m.Get("o")
	assert.Equal(t, 0, o.(*recordkit.Mapping).Len())
}

func TestJSON_DuplicateKey(t *testing.T) {
	_, err := JSON([]byte(`{"a": 1, "a": 2}`))
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Key)
}

func TestJSON_Truncated(t *testing.T) {
	_, err := JSON([]byte(`{"a": [1, 2`))
	assert.Error(t, err)
}

func TestJSONReader_Stream(t *testing.T) {
	r := NewJSONReader(strings.NewReader(`{"a":1} {"b":2}`))
	_, err := r.Next()
	require.NoError(t, err)
	v, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, v.(*recordkit.Mapping).Keys())
	_, err = r.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	f, err = ParseFormat(".json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)

	assert.Equal(t, FormatJSON, FormatOf("stack.JSON"))
	assert.Equal(t, FormatYAML, FormatOf("stack.txt"))
	assert.Equal(t, FormatYAML, FormatOf("stack"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stack.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "x"}`), 0o644))
	v, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, v.(*recordkit.Mapping).Keys())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("a: 1\na: 2\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncode(t *testing.T) {
	m := recordkit.MappingFrom("title", "x", "tags", []any{"a"})

	var y bytes.Buffer
	require.NoError(t, Encode(&y, FormatYAML, m))
	assert.Equal(t, "title: x\ntags:\n  - a\n", y.String())

	var j bytes.Buffer
	require.NoError(t, Encode(&j, FormatJSON, m))
	assert.Equal(t, "{\n  \"title\": \"x\",\n  \"tags\": [\n    \"a\"\n  ]\n}\n", j.String())
}

func TestRoundTripThroughYAML(t *testing.T) {
	m := recordkit.MappingFrom("b", int64(1), "a", recordkit.MappingFrom("c", "d"))
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, m))
	back, err := YAML(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, m.Plain(), back.(*recordkit.Mapping).Plain())
	assert.Equal(t, m.Keys(), back.(*recordkit.Mapping).Keys())
}
