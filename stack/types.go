package stack

import (
	"fmt"
	"slices"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/dsl"
)

// Registry resolves experiment, analysis and aggregate names used in stack
// documents.
var Registry = newRegistry()

func newRegistry() *recordkit.Registry {
	reg := recordkit.NewRegistry()
	for name, fn := range map[string]any{"mean": Mean, "median": Median} {
		if err := reg.RegisterFunc(name, fn); err != nil {
			panic(fmt.Sprintf("stack: register %s: %v", name, err))
		}
	}
	return reg
}

var (
	// Realtime configures realtime evaluation.
	Realtime = recordkit.Define("realtime").
			Field("grace", dsl.Integer().Min(0).WithDefault(0)).
			Field("fps", dsl.Float().Min(0).WithDefault(20)).
			MustBuild()

	// Noise configures input perturbation.
	Noise = recordkit.Define("noise").
		Field("frame", dsl.Float().Min(0).Max(1).WithDefault(0.1)).
		Field("seed", dsl.Integer().WithDefault(1)).
		MustBuild()

	// Analysis is the base of every analysis.
	Analysis = recordkit.Define("analysis").
			Field("title", dsl.String().WithDefault("")).
			MustBuild()

	Accuracy = recordkit.Define("accuracy").
			Extends(Analysis).
			Field("burnin", dsl.Integer().Min(0).WithDefault(10)).
			Field("ignore_unknown", dsl.Boolean().WithDefault(true)).
			Field("aggregate", dsl.Callable().Registry(Registry).WithDefault("mean")).
			MustBuild()

	Failures = recordkit.Define("failures").
			Extends(Analysis).
			Field("aggregate", dsl.Callable().Registry(Registry).WithDefault("median")).
			MustBuild()

	// Experiment is the base of every experiment.
	Experiment = recordkit.Define("experiment").
			Field("realtime", dsl.Nested(Realtime).Optional()).
			Field("noise", dsl.Nested(Noise).Optional()).
			Field("analyses", dsl.List(dsl.Object().Base(Analysis).Registry(Registry)).WithDefault([]any{})).
			MustBuild()

	MultiRun = recordkit.Define("multirun").
			Extends(Experiment).
			Field("repetitions", dsl.Integer().Min(1).WithDefault(1)).
			Field("early_stop", dsl.Boolean().WithDefault(true)).
			MustBuild()

	// FailureCriteria is included flat into supervised experiments.
	FailureCriteria = recordkit.Define("failure_criteria").
			Field("skip_initialize", dsl.Integer().Min(1).WithDefault(1)).
			Field("failure_overlap", dsl.Float().Min(0).Max(1).WithDefault(0)).
			MustBuild()

	Supervised = recordkit.Define("supervised").
			Extends(MultiRun).
			Field("failure", dsl.Include(FailureCriteria)).
			Field("skip_tags", dsl.List(dsl.String()).WithDefault([]any{})).
			MustBuild()

	Unsupervised = recordkit.Define("unsupervised").
			Extends(MultiRun).
			MustBuild()

	MultiStart = recordkit.Define("multistart").
			Extends(Experiment).
			Field("anchor", dsl.String().WithDefault("anchor")).
			MustBuild()

	// Type is the stack document itself.
	Type = recordkit.Define("stack").
		Field("title", dsl.String()).
		Field("dataset", dsl.String().WithDefault("")).
		Field("url", dsl.String().WithDefault("")).
		Field("deprecated", dsl.Boolean().WithDefault(false)).
		Field("experiments", dsl.Map(dsl.Object().Base(Experiment).Registry(Registry).Resolver(resolveExperiment))).
		MustBuild()
)

func init() {
	Registry.RegisterType(
		Realtime, Noise,
		Analysis, Accuracy, Failures,
		Experiment, MultiRun, FailureCriteria, Supervised, Unsupervised, MultiStart,
		Type,
	)
}

// Mean aggregates per-sequence scores by their arithmetic mean.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median aggregates per-sequence scores by their median.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := slices.Clone(values)
	slices.Sort(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
