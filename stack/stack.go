// Package stack describes evaluation stacks: documents naming a dataset and
// a set of experiments, each of a registered experiment type. Experiments
// are bound at construction time to the identifier they are listed under and
// to the storage of the workspace loading the stack.
package stack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/dsl"
	"github.com/reoring/recordkit/i18n"
)

// ExperimentInstance is a constructed experiment bound to its identifier and
// storage.
type ExperimentInstance struct {
	*recordkit.Record
	id      string
	storage Storage
}

// Identifier returns the key the experiment is listed under.
func (e *ExperimentInstance) Identifier() string { return e.id }

// Storage returns the storage the experiment was bound to, or nil.
func (e *ExperimentInstance) Storage() Storage { return e.storage }

// Analyses returns the configured analyses in document order.
func (e *ExperimentInstance) Analyses() []*recordkit.Record {
	var out []*recordkit.Record
	for _, v := range e.List("analyses") {
		if r, ok := v.(*recordkit.Record); ok {
			out = append(out, r)
		}
	}
	return out
}

// Results returns the results directory of a tracker on one sequence.
func (e *ExperimentInstance) Results(tracker, sequence string) (string, error) {
	if e.storage == nil {
		return "", fmt.Errorf("experiment %s: %w", e.id, recordkit.ErrNotFound)
	}
	return e.storage.Directory("results", tracker, e.id, sequence)
}

func resolveExperiment(ctx context.Context, typename string, args *recordkit.Mapping) (recordkit.Instance, error) {
	t, err := Registry.LookupType(typename)
	if err != nil {
		return nil, err
	}
	if !t.IsA(Experiment) {
		return nil, recordkit.Issues{{
			Path:    recordkit.Pointer(dsl.Discriminator),
			Code:    recordkit.CodeInvalidType,
			Message: i18n.T(recordkit.CodeInvalidType, map[string]string{"expected": Experiment.Name()}),
			Hint:    fmt.Sprintf("%s is not an experiment", typename),
		}}
	}
	rec, err := recordkit.Construct(ctx, t, args)
	if err != nil {
		return nil, err
	}
	exp := &ExperimentInstance{Record: rec}
	if k, ok := recordkit.KeyFrom(ctx); ok {
		exp.id, _ = k.(string)
	}
	if s, ok := recordkit.Service[Storage](ctx); ok {
		exp.storage = s
	} else if p, ok := recordkit.ParentFrom(ctx); ok {
		if ws, ok := p.Owner.(*Workspace); ok {
			exp.storage = ws.Storage()
		}
	}
	return exp, nil
}

// Stack is a constructed stack document.
type Stack struct {
	*recordkit.Record
	workspace *Workspace
}

// Load constructs a stack from raw data. ws may be nil; experiments then take
// their storage from a Storage service in ctx, if any.
func Load(ctx context.Context, ws *Workspace, raw any) (*Stack, error) {
	if ws != nil {
		ctx = recordkit.WithOwner(ctx, ws)
	}
	rec, err := recordkit.Construct(ctx, Type, raw)
	if err != nil {
		return nil, err
	}
	return &Stack{Record: rec, workspace: ws}, nil
}

// Workspace returns the workspace the stack was loaded for.
func (s *Stack) Workspace() *Workspace { return s.workspace }

// Title returns the stack title.
func (s *Stack) Title() string { return s.String("title") }

// Experiments returns the experiments in document order.
func (s *Stack) Experiments() []*ExperimentInstance {
	view, _ := recordkit.Value[*dsl.MapView](s.Record, "experiments")
	if view == nil {
		return nil
	}
	out := make([]*ExperimentInstance, 0, view.Len())
	for _, v := range view.All() {
		if e, ok := v.(*ExperimentInstance); ok {
			out = append(out, e)
		}
	}
	return out
}

// Experiment returns the experiment listed under id.
func (s *Stack) Experiment(id string) (*ExperimentInstance, bool) {
	view, _ := recordkit.Value[*dsl.MapView](s.Record, "experiments")
	if view == nil {
		return nil, false
	}
	v, ok := view.Get(id)
	if !ok {
		return nil, false
	}
	e, ok := v.(*ExperimentInstance)
	return e, ok
}

// Len returns the number of experiments.
func (s *Stack) Len() int { return len(s.Experiments()) }

// Resolve locates a stack file. A path naming an existing file is returned
// as is; otherwise name, then name with a .yaml extension, is looked up in
// each directory.
func Resolve(name string, dirs ...string) (string, bool) {
	if isFile(name) {
		return name, true
	}
	if filepath.IsAbs(name) {
		return "", false
	}
	for _, dir := range dirs {
		for _, cand := range []string{name, name + ".yaml"} {
			p := filepath.Join(dir, cand)
			if isFile(p) {
				return p, true
			}
		}
	}
	return "", false
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
