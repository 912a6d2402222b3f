package container

import (
	"fmt"
	"io"

	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/repo"
	"github.com/VictoriaMetrics/metrics"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var log = logging.GetLogger("container")

// Option configures a container.
type Option func(*config)

type config struct {
	name string
	set  *metrics.Set
}

// WithName sets the name used as "container" label of the metrics (default "default").
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithMetricsSet makes the container register its counters in set instead of a private one.
// Several containers may share a set as long as their names differ.
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *config) {
		c.set = set
	}
}

// --------------------------------------------------------------------------
// Readonly Container
// --------------------------------------------------------------------------

// Readonly exposes the read surface of a repository and nothing else.
type Readonly struct {
	repository repo.IReadonlyRepository
	set        *metrics.Set
	name       string

	reads  *metrics.Counter
	misses *metrics.Counter
}

// compile time check
var _ repo.IReadonlyRepository = (*Readonly)(nil)

// NewReadonly wraps r into a read-only view.
func NewReadonly(r repo.IReadonlyRepository, opts ...Option) *Readonly {
	cfg := config{name: "default"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.set == nil {
		cfg.set = metrics.NewSet()
	}

	return &Readonly{
		repository: r,
		set:        cfg.set,
		name:       cfg.name,
		reads:      cfg.set.GetOrCreateCounter(metricName("hkv_container_reads_total", cfg.name)),
		misses:     cfg.set.GetOrCreateCounter(metricName("hkv_container_misses_total", cfg.name)),
	}
}

func (c *Readonly) Has(key string) bool {
	c.reads.Inc()
	ok := c.repository.Has(key)
	if !ok {
		c.misses.Inc()
	}
	return ok
}

func (c *Readonly) Get(key string, def ...any) any {
	c.reads.Inc()
	if !c.repository.Has(key) {
		c.misses.Inc()
	}
	return c.repository.Get(key, def...)
}

func (c *Readonly) GetKeys(opts ...repo.Option) []string {
	c.reads.Inc()
	return c.repository.GetKeys(opts...)
}

func (c *Readonly) GetValues(opts ...repo.Option) *orderedmap.OrderedMap[string, any] {
	c.reads.Inc()
	return c.repository.GetValues(opts...)
}

func (c *Readonly) ToArray() map[string]any {
	c.reads.Inc()
	return c.repository.ToArray()
}

func (c *Readonly) ToJSON() (string, error) {
	c.reads.Inc()
	return c.repository.ToJSON()
}

// Name returns the name of the container.
func (c *Readonly) Name() string {
	return c.name
}

// Metrics returns the set the counters of the container are registered in.
func (c *Readonly) Metrics() *metrics.Set {
	return c.set
}

// WritePrometheus writes the counters in Prometheus text format to w.
func (c *Readonly) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// --------------------------------------------------------------------------
// ReadWrite Container
// --------------------------------------------------------------------------

// IWritableRepository is what a ReadWrite container needs from its repository.
type IWritableRepository interface {
	repo.IReadonlyRepository
	Set(key string, value any)
}

// ReadWrite exposes the read surface of a repository plus Set.
type ReadWrite struct {
	*Readonly
	repository IWritableRepository
	writes     *metrics.Counter
}

// NewReadWrite wraps r into a view that can read and set keys.
func NewReadWrite(r IWritableRepository, opts ...Option) *ReadWrite {
	ro := NewReadonly(r, opts...)
	return &ReadWrite{
		Readonly:   ro,
		repository: r,
		writes:     ro.set.GetOrCreateCounter(metricName("hkv_container_writes_total", ro.name)),
	}
}

// Set inserts or updates a key. Setting nil removes the key.
func (c *ReadWrite) Set(key string, value any) {
	c.writes.Inc()
	log.Debugf("container %s: set %q", c.name, key)
	c.repository.Set(key, value)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func metricName(metric, container string) string {
	return fmt.Sprintf("%s{container=%q}", metric, container)
}
