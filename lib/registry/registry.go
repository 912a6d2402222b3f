package registry

import (
	"fmt"
	"sort"

	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/repo"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
)

var log = logging.GetLogger("registry")

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// RetCode classifies a registry Error.
type RetCode uint8

const (
	RetCInvalidName       RetCode = iota // 0: the name is empty
	RetCInvalidRepository                // 1: the repository is nil
	RetCAlreadyRegistered                // 2: a repository is already registered under the name
)

func (c RetCode) String() string {
	switch c {
	case RetCInvalidName:
		return "InvalidName"
	case RetCInvalidRepository:
		return "InvalidRepository"
	case RetCAlreadyRegistered:
		return "AlreadyRegistered"
	default:
		return "Unknown"
	}
}

// Error is returned by Register.
type Error struct {
	Code RetCode // The return code
	Name string  // The name passed to Register
}

func (e *Error) Error() string {
	return fmt.Sprintf("registry error (%s): %q", e.Code, e.Name)
}

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry maps names to repositories. It is safe for concurrent use, the
// repositories it holds are not.
type Registry struct {
	repositories *xsync.MapOf[string, repo.IRepository]

	metrics    gometrics.Registry
	registered gometrics.Counter
	removed    gometrics.Counter
	lookupMiss gometrics.Counter
	sizeGauge  gometrics.Gauge
}

// New creates an empty registry.
func New() *Registry {
	m := gometrics.NewRegistry()
	return &Registry{
		repositories: xsync.NewMapOf[string, repo.IRepository](),
		metrics:      m,
		registered:   gometrics.GetOrRegisterCounter("registry.registered", m),
		removed:      gometrics.GetOrRegisterCounter("registry.removed", m),
		lookupMiss:   gometrics.GetOrRegisterCounter("registry.lookup.miss", m),
		sizeGauge:    gometrics.GetOrRegisterGauge("registry.size", m),
	}
}

// Register stores r under name. It fails if the name is taken.
func (reg *Registry) Register(name string, r repo.IRepository) error {
	if name == "" {
		return &Error{Code: RetCInvalidName, Name: name}
	}
	if r == nil {
		return &Error{Code: RetCInvalidRepository, Name: name}
	}
	if _, loaded := reg.repositories.LoadOrStore(name, r); loaded {
		return &Error{Code: RetCAlreadyRegistered, Name: name}
	}
	reg.registered.Inc(1)
	reg.updateSize()
	log.Debugf("registered repository %q", name)
	return nil
}

// Lookup returns the repository registered under name.
func (reg *Registry) Lookup(name string) (repo.IRepository, bool) {
	r, ok := reg.repositories.Load(name)
	if !ok {
		reg.lookupMiss.Inc(1)
	}
	return r, ok
}

// Remove unregisters name and returns the repository that was registered.
func (reg *Registry) Remove(name string) (repo.IRepository, bool) {
	r, ok := reg.repositories.LoadAndDelete(name)
	if ok {
		reg.removed.Inc(1)
		reg.updateSize()
		log.Debugf("removed repository %q", name)
	}
	return r, ok
}

// Names returns the registered names in sorted order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, reg.repositories.Size())
	reg.repositories.Range(func(name string, _ repo.IRepository) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Range calls fn for every registered repository until fn returns false.
// The iteration order is unspecified.
func (reg *Registry) Range(fn func(name string, r repo.IRepository) bool) {
	reg.repositories.Range(fn)
}

// Len returns the number of registered repositories.
func (reg *Registry) Len() int {
	return reg.repositories.Size()
}

// Metrics returns the metrics registry holding the counters
// registry.registered, registry.removed, registry.lookup.miss and the gauge registry.size.
func (reg *Registry) Metrics() gometrics.Registry {
	return reg.metrics
}

func (reg *Registry) updateSize() {
	reg.sizeGauge.Update(int64(reg.repositories.Size()))
}
