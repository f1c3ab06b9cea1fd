package dsl_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/recordkit"
	g "github.com/reoring/recordkit/dsl"
)

var (
	shape  = recordkit.Define("shape").MustBuild()
	circle = recordkit.Define("circle").Extends(shape).
		Field("radius", g.Float().Min(0)).
		MustBuild()
	square = recordkit.Define("square").Extends(shape).
		Field("side", g.Float().Min(0).WithDefault(1)).
		MustBuild()
	label = recordkit.Define("label").Field("text", g.String()).MustBuild()
)

func shapes() *recordkit.Registry {
	reg := recordkit.NewRegistry()
	reg.RegisterType(shape, circle, square, label)
	return reg
}

// circleArea is a domain instance wrapping the constructed record.
type circleArea struct {
	*recordkit.Record
	area float64
}

func TestObject_ResolverCalledOnceWithRemainingArgs(t *testing.T) {
	type call struct {
		name string
		args map[string]any
	}
	var calls []call
	resolver := func(ctx context.Context, name string, args *recordkit.Mapping) (recordkit.Instance, error) {
		calls = append(calls, call{name: name, args: args.Plain()})
		rec, err := recordkit.Construct(ctx, circle, args)
		if err != nil {
			return nil, err
		}
		r := rec.Float("radius")
		return &circleArea{Record: rec, area: math.Pi * r * r}, nil
	}
	o := g.Object().Base(shape).Resolver(resolver)

	v, err := o.Coerce(context.Background(), recordkit.MappingFrom("type", "Circle", "radius", "5"))
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "Circle", calls[0].name)
	assert.Equal(t, map[string]any{"radius": "5"}, calls[0].args)

	inst := v.(*circleArea)
	assert.Equal(t, 5.0, inst.Float("radius"))
	assert.InDelta(t, 78.54, inst.area, 0.01)

	d, err := o.Dump(v)
	require.NoError(t, err)
	dm := d.(*recordkit.Mapping)
	assert.Equal(t, []string{"type", "radius"}, dm.Keys())
	typ, _ := dm.Get("type")
	assert.Equal(t, "circle", typ)
}

func TestObject_DumpNamesRegisteredType(t *testing.T) {
	circleType := recordkit.Define("Circle").Extends(shape).
		Field("radius", g.Float().Min(0)).
		MustBuild()
	reg := recordkit.NewRegistry()
	reg.RegisterType(shape, circleType)
	o := g.Object().Base(shape).Registry(reg)

	v, err := o.Coerce(context.Background(), map[string]any{"type": "Circle", "radius": 5})
	require.NoError(t, err)
	assert.Same(t, circleType, v.(recordkit.Instance).Schema())

	d, err := o.Dump(v)
	require.NoError(t, err)
	dm := d.(*recordkit.Mapping)
	typ, _ := dm.Get("type")
	assert.Equal(t, "Circle", typ)
	radius, _ := dm.Get("radius")
	assert.Equal(t, 5.0, radius)
}

func TestObject_DefaultResolverUsesRegistry(t *testing.T) {
	o := g.Object().Base(shape).Registry(shapes())
	v, err := o.Coerce(context.Background(), map[string]any{"type": "square"})
	require.NoError(t, err)
	rec := v.(*recordkit.Record)
	assert.Same(t, square, rec.Schema())
	assert.Equal(t, 1.0, rec.Float("side"))
}

func TestObject_HintsQualifyNames(t *testing.T) {
	reg := recordkit.NewRegistry()
	dot := recordkit.Define("geo.dot").MustBuild()
	reg.RegisterType(dot)

	v, err := g.Object().Registry(reg).Hints("geo").Coerce(context.Background(), recordkit.MappingFrom("type", "dot"))
	require.NoError(t, err)
	assert.Same(t, dot, v.(recordkit.Instance).Schema())
}

func TestObject_Errors(t *testing.T) {
	ctx := context.Background()
	o := g.Object().Base(shape).Registry(shapes())

	_, err := o.Coerce(ctx, recordkit.MappingFrom("radius", 1))
	assert.Equal(t, recordkit.CodeDiscriminatorMissing, firstCode(t, err))

	_, err = o.Coerce(ctx, recordkit.MappingFrom("type", 7))
	assert.Equal(t, recordkit.CodeDiscriminatorMissing, firstCode(t, err))

	_, err = o.Coerce(ctx, recordkit.MappingFrom("type", "hexagon"))
	iss, _ := recordkit.AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, recordkit.CodeDiscriminatorUnknown, iss[0].Code)
	assert.Equal(t, "/type", iss[0].Path)
	assert.Equal(t, "unknown type: 'hexagon'", iss[0].Hint)
	assert.ErrorIs(t, err, recordkit.ErrNotFound)

	_, err = o.Coerce(ctx, recordkit.MappingFrom("type", "label", "text", "hi"))
	assert.Equal(t, recordkit.CodeInvalidType, firstCode(t, err))

	_, err = o.Coerce(ctx, recordkit.MappingFrom("type", "circle", "radius", -2, "color", "red"))
	iss, _ = recordkit.AsIssues(err)
	require.Len(t, iss, 2)
	assert.Equal(t, "/radius", iss[0].Path)
	assert.Equal(t, "/color", iss[1].Path)

	_, err = o.Coerce(ctx, "circle")
	assert.Equal(t, recordkit.CodeInvalidType, firstCode(t, err))

	v, err := o.Coerce(ctx, nil)
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestObject_ResolverFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	failing := g.Object().Resolver(func(context.Context, string, *recordkit.Mapping) (recordkit.Instance, error) {
		return nil, boom
	})
	_, err := failing.Coerce(ctx, recordkit.MappingFrom("type", "x"))
	assert.Equal(t, recordkit.CodeParseError, firstCode(t, err))
	assert.ErrorIs(t, err, boom)

	empty := g.Object().Resolver(func(context.Context, string, *recordkit.Mapping) (recordkit.Instance, error) {
		return nil, nil
	})
	_, err = empty.Coerce(ctx, recordkit.MappingFrom("type", "x"))
	assert.Error(t, err)
}

func TestObject_ResolverSeesKeyAndParent(t *testing.T) {
	var gotKey any
	var gotOwner any
	holder := recordkit.Define("holder").
		Field("shapes", g.Map(g.Object().Resolver(func(ctx context.Context, name string, args *recordkit.Mapping) (recordkit.Instance, error) {
			gotKey, _ = recordkit.KeyFrom(ctx)
			if p, ok := recordkit.ParentFrom(ctx); ok {
				gotOwner = p.Owner
			}
			return recordkit.Construct(ctx, circle, args)
		}))).
		MustBuild()

	raw := recordkit.MappingFrom("shapes", recordkit.MappingFrom("big", recordkit.MappingFrom("type", "circle", "radius", 9)))
	_, err := recordkit.Construct(recordkit.WithOwner(context.Background(), "workspace"), holder, raw)
	require.NoError(t, err)
	assert.Equal(t, "big", gotKey)
	assert.Equal(t, "workspace", gotOwner)
}

func TestObject_JSONSchemaListsSubtypes(t *testing.T) {
	s := g.Object().Base(shape).Registry(shapes()).JSONSchema()
	var names []any
	for _, v := range s.AnyOf {
		names = append(names, v.Properties["type"].Const)
	}
	assert.Equal(t, []any{"circle", "shape", "square"}, names)
}

func TestNested(t *testing.T) {
	ctx := context.Background()
	n := g.Nested(circle)
	assert.True(t, n.Required())
	assert.False(t, n.Default().IsSet())

	v, err := n.Coerce(ctx, recordkit.MappingFrom("radius", 2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.(*recordkit.Record).Float("radius"))

	v, err = n.Coerce(ctx, nil)
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = n.Coerce(ctx, "r=2")
	assert.Equal(t, recordkit.CodeInvalidType, firstCode(t, err))

	_, err = n.Coerce(ctx, recordkit.MappingFrom())
	assert.Equal(t, recordkit.CodeRequired, firstCode(t, err))
}

func TestNested_ImplicitDefaultFromFieldDefaults(t *testing.T) {
	n := g.Nested(square)
	assert.False(t, n.Required())
	dv, ok := n.Default().Get()
	require.True(t, ok)
	assert.Equal(t, 1.0, dv.(*recordkit.Record).Float("side"))

	opt := g.Nested(circle).Optional()
	assert.False(t, opt.Required())
	dv, ok = opt.Default().Get()
	assert.True(t, ok)
	assert.Nil(t, dv)

	assert.Error(t, g.Nested(nil).Check())
	assert.Error(t, g.Nested(circle).WithDefault(map[string]any{"radius": -1}).Check())
}

func TestNested_DefaultRecordsAreNotShared(t *testing.T) {
	owner := recordkit.Define("owner").
		Field("implicit", g.Nested(square)).
		Field("explicit", g.Nested(circle).WithDefault(map[string]any{"radius": 2})).
		Field("shape", g.Object().Registry(shapes()).WithDefault(map[string]any{"type": "square"})).
		MustBuild()

	r1 := recordkit.MustConstruct(context.Background(), owner, nil)
	r2 := recordkit.MustConstruct(context.Background(), owner, nil)
	for _, name := range []string{"implicit", "explicit", "shape"} {
		a, b := r1.Record(name), r2.Record(name)
		require.NotNil(t, a, name)
		require.NotNil(t, b, name)
		assert.NotSame(t, a, b, name)

		require.NoError(t, a.Attach("tag", "first"))
		_, ok := b.Attached("tag")
		assert.False(t, ok, name)
	}
	assert.Equal(t, 2.0, r2.Record("explicit").Float("radius"))
}

func TestInclude(t *testing.T) {
	inc := g.Include(square)
	assert.False(t, inc.Required())
	assert.False(t, inc.Default().IsSet())
	assert.Same(t, square, inc.Included())

	filtered := inc.Filter(recordkit.MappingFrom("side", 3, "other", 1))
	assert.Equal(t, []string{"side"}, filtered.Keys())

	d, err := inc.Dump(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.(*recordkit.Mapping).Len())

	assert.Error(t, g.Include(nil).Check())
}

func TestIncludePassesOwnerThrough(t *testing.T) {
	var owners []any
	spied := recordkit.Define("spied").Field("p", ownerSpy{owners: &owners}).MustBuild()
	outer := recordkit.Define("outer").Field("inc", g.Include(spied)).MustBuild()

	_, err := recordkit.Construct(recordkit.WithOwner(context.Background(), "ws"), outer, recordkit.MappingFrom("p", 1))
	require.NoError(t, err)
	assert.Equal(t, []any{"ws"}, owners)
}

type ownerSpy struct{ owners *[]any }

func (p ownerSpy) Coerce(ctx context.Context, raw any) (any, error) {
	if par, ok := recordkit.ParentFrom(ctx); ok {
		*p.owners = append(*p.owners, par.Owner)
	}
	return raw, nil
}
func (p ownerSpy) Dump(v any) (any, error)      { return v, nil }
func (p ownerSpy) Default() recordkit.Optional { return recordkit.None() }
func (p ownerSpy) Required() bool              { return true }
