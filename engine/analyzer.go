package engine

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reposcan/reposcan/counts"
	"github.com/reposcan/reposcan/metrics"
	"github.com/reposcan/reposcan/oid"
	"github.com/reposcan/reposcan/pool"
	"github.com/reposcan/reposcan/store"
)

var errUnknownVariant = fmt.Errorf("unknown object variant")

// State names the stage an Analyzer run is in. A run never revisits a
// state: Idle -> Iterating -> Draining -> Aggregating -> Done, or
// Failed from Draining or Aggregating.
type State int

const (
	StateIdle State = iota
	StateIterating
	StateDraining
	StateAggregating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIterating:
		return "iterating"
	case StateDraining:
		return "draining"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Analyzer runs one statistics pass over an ObjectStoreAdapter. It is
// single-use: construct one per run.
type Analyzer struct {
	adapter  store.ObjectStoreAdapter
	workers  int
	logger   *log.Logger
	recorder metrics.Recorder

	state State
}

// Option configures an Analyzer at construction time.
type Option func(*Analyzer)

// WithWorkers overrides the worker pool size. Values below 1 are
// clamped to max(runtime.NumCPU(), 4), the design's default.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithLogger attaches a logger the Analyzer narrates its state
// transitions through. The default discards all output.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithRecorder attaches optional instrumentation. The default is
// metrics.Noop.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Analyzer) {
		a.recorder = r
	}
}

// NewAnalyzer constructs an Analyzer over adapter, ready to Analyze.
func NewAnalyzer(adapter store.ObjectStoreAdapter, opts ...Option) *Analyzer {
	a := &Analyzer{
		adapter:  adapter,
		workers:  defaultWorkerCount(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		recorder: metrics.Noop{},
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = defaultWorkerCount()
	}
	return a
}

func defaultWorkerCount() int {
	if n := runtime.NumCPU(); n > 4 {
		return n
	}
	return 4
}

// State reports the Analyzer's current stage.
func (a *Analyzer) State() State {
	return a.state
}

// Analyze runs the full orchestration contract of §4.7: iterate the
// object database across a worker pool, drain it, then fan the
// independent single-threaded aggregation steps out over an errgroup,
// and assemble the Report. Any failure aborts with the first error
// observed; no partial Report is returned.
func (a *Analyzer) Analyze() (Report, error) {
	runID := uuid.New()
	logger := a.logger.With("runID", runID.String())

	acc := newAccumulator()
	p := pool.New(a.workers)

	a.state = StateIterating
	logger.Info("iterating object database", "workers", a.workers)

	iterErr := a.adapter.ForEachObjectID(func(id oid.OID) error {
		submitted := id
		p.Submit(func() error {
			return a.handle(acc, submitted)
		})
		a.recorder.QueueDepth(p.Len())
		return nil
	})

	a.state = StateDraining
	logger.Debug("draining worker pool")
	workErr := p.Shutdown()

	if iterErr != nil {
		a.state = StateFailed
		err := &AnalysisError{Kind: KindIterationFailed, Err: iterErr}
		logger.Error("iteration failed", "error", err)
		return Report{}, err
	}
	if workErr != nil {
		a.state = StateFailed
		logger.Error("worker failed", "error", workErr)
		return Report{}, workErr
	}

	a.state = StateAggregating
	logger.Debug("aggregating")

	var (
		biggestCheckouts TreeCumulativeStats
		maxTagDepth      counts.Count32
		maxDepth         counts.Count32
		refCount         counts.Count32
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		biggestCheckouts, err = acc.computeBiggestCheckouts()
		return err
	})
	g.Go(func() error {
		var err error
		maxTagDepth, err = acc.computeMaxTagDepth()
		return err
	})
	g.Go(func() error {
		maxDepth = acc.dag.maxDepth()
		return nil
	})
	g.Go(func() error {
		n, err := countReferences(a.adapter)
		if err != nil {
			return &AnalysisError{Kind: KindReferenceListFailed, Err: err}
		}
		refCount = n
		return nil
	})

	if err := g.Wait(); err != nil {
		a.state = StateFailed
		logger.Error("aggregation failed", "error", err)
		return Report{}, err
	}

	report := Report{
		RunID: runID,
		RepositorySize: RepositorySize{
			Commits:       CountSize{Count: counts.Count32(len(acc.commits)), Size: acc.commitSize},
			Trees:         TreeSize{Count: countedTrees(acc), Size: acc.treeSize, Entries: acc.treeEntries},
			Blobs:         CountSize{Count: counts.Count32(len(acc.blobs)), Size: acc.blobSize},
			AnnotatedTags: Count{Count: counts.Count32(len(acc.tags))},
			References:    Count{Count: refCount},
		},
		BiggestObjects: BiggestObjects{
			Commits: CommitMax{MaxSize: acc.maxSize, MaxParents: acc.maxParents},
			Trees:   TreeMax{MaxEntries: acc.maxEntries},
			Blobs:   BlobMax{MaxSize: acc.maxBlobSize},
		},
		HistoryStructure: HistoryStructure{
			MaxDepth:    maxDepth,
			MaxTagDepth: maxTagDepth,
		},
		BiggestCheckouts: biggestCheckouts,
	}

	a.state = StateDone
	logger.Info("done", "summary", report.String())
	return report, nil
}

func (a *Analyzer) handle(acc *accumulator, id oid.OID) error {
	obj, err := a.adapter.Lookup(id)
	if err != nil {
		return &AnalysisError{Kind: KindLookupFailed, OID: id, Err: err}
	}

	switch obj.Variant {
	case store.VariantCommit:
		err = acc.handleCommit(id, a.adapter)
	case store.VariantTree:
		err = acc.handleTree(id, a.adapter)
	case store.VariantBlob:
		err = acc.handleBlob(id, a.adapter)
	case store.VariantTag:
		err = acc.handleTag(id, a.adapter)
	default:
		err = fmt.Errorf("object %s: %w", id, errUnknownVariant)
	}
	if err == nil {
		a.recorder.ObjectProcessed(obj.Variant)
	}
	return err
}

func countedTrees(acc *accumulator) counts.Count32 {
	var n counts.Count32
	for _, rec := range acc.trees {
		if rec.counted {
			n.Increment(1)
		}
	}
	return n
}

func countReferences(adapter store.ObjectStoreAdapter) (counts.Count32, error) {
	var n counts.Count32
	err := adapter.ForEachReference(func(string) error {
		n.Increment(1)
		return nil
	})
	return n, err
}
