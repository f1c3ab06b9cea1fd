package recordkit

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMapping_KeepsInsertionOrder(t *testing.T) {
	m := MappingFrom("b", 1, "a", 2, "c", 3)
	m.Set("a", 20)
	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, 20, v)

	m.Delete("b")
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	m.Prepend("type", "x")
	assert.Equal(t, []string{"type", "a", "c"}, m.Keys())
	m.Prepend("c", 30)
	assert.Equal(t, []string{"c", "type", "a"}, m.Keys())
	assert.Equal(t, 3, m.Len())
}

func TestMapping_NilIsEmpty(t *testing.T) {
	var m *Mapping
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("x"))
	assert.Nil(t, m.Keys())
	for range m.All() {
		t.Fatal("nil mapping yielded")
	}
}

func TestMappingOf_SortsGoMaps(t *testing.T) {
	m, ok := MappingOf(map[string]any{"z": 1, "a": 2})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "z"}, m.Keys())

	m, ok = MappingOf(map[any]any{2: "b", 1: "a"})
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, m.Keys())

	_, ok = MappingOf([]any{})
	assert.False(t, ok)
}

func TestMapping_CloneIsShallowCopy(t *testing.T) {
	m := MappingFrom("a", 1)
	c := m.Clone()
	c.Set("b", 2)
	assert.False(t, m.Has("b"))
}

func TestMapping_MarshalJSONKeepsOrder(t *testing.T) {
	m := MappingFrom("z", 1, "a", MappingFrom("y", true, "b", nil), "m", []any{"x"})
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":["x"]}`, string(b))
}

func TestMapping_MarshalYAMLKeepsOrder(t *testing.T) {
	m := MappingFrom("z", 1, "a", MappingFrom("y", "v"))
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	require.NoError(t, enc.Encode(m))
	require.NoError(t, enc.Close())
	assert.Equal(t, "z: 1\na:\n  y: v\n", buf.String())
}

func TestPlain(t *testing.T) {
	m := MappingFrom("a", MappingFrom("b", []any{MappingFrom("c", 1)}))
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": []any{map[string]any{"c": 1}}},
	}, Plain(m))
	assert.Equal(t, 5, Plain(5))
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		in   any
		want Kind
	}{
		{nil, KindNull},
		{"s", KindScalar},
		{int64(1), KindScalar},
		{true, KindScalar},
		{MappingFrom(), KindMapping},
		{map[string]any{}, KindMapping},
		{[]any{}, KindSequence},
		{[]string{"a"}, KindSequence},
		{[]byte("x"), KindOther},
		{struct{}{}, KindOther},
		{(*int)(nil), KindNull},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, KindOf(c.in), "%#v", c.in)
	}
}

func TestItems(t *testing.T) {
	items, ok := Items([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, items)
	_, ok = Items("a")
	assert.False(t, ok)
}

func TestOptional(t *testing.T) {
	assert.False(t, None().IsSet())
	assert.Equal(t, 3, None().OrElse(3))

	o := Some(nil)
	v, ok := o.Get()
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, o.OrElse(3))
}
