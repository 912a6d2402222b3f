package testing

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/repo"
)

// RepositoryFactory is a function that creates a new, empty instance of an IRepository implementation
type RepositoryFactory func() repo.IRepository

// RunRepositoryTests runs the behaviour shared by all IRepository implementations.
// Keys used by the suite never contain a separator, so flat and hierarchical
// repositories are expected to behave identically.
func RunRepositoryTests(t *testing.T, name string, factory RepositoryFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("GetDefault", func(t *testing.T) {
			testGetDefault(t, factory())
		})

		t.Run("SetNil", func(t *testing.T) {
			testSetNil(t, factory())
		})

		t.Run("Unset", func(t *testing.T) {
			testUnset(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("KeyOrder", func(t *testing.T) {
			testKeyOrder(t, factory())
		})

		t.Run("Merge", func(t *testing.T) {
			testMerge(t, factory)
		})

		t.Run("Replace", func(t *testing.T) {
			testReplace(t, factory)
		})

		t.Run("ToArray&FromArray", func(t *testing.T) {
			testArray(t, factory())
		})

		t.Run("JSON", func(t *testing.T) {
			testJSON(t, factory())
		})

		t.Run("MalformedJSON", func(t *testing.T) {
			testMalformedJSON(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, r repo.IRepository) {
	r.Set("name", "hkv")
	if !r.Has("name") {
		t.Errorf("Expected key name to exist after Set")
	}
	if got := r.Get("name"); got != "hkv" {
		t.Errorf("Expected value hkv, got %v", got)
	}

	r.Set("name", "other")
	if got := r.Get("name"); got != "other" {
		t.Errorf("Expected value other after overwrite, got %v", got)
	}

	r.Set("flag", false)
	if got := r.Get("flag", true); got != false {
		t.Errorf("Expected false values to be returned instead of the default, got %v", got)
	}

	r.Set("list", []any{"x", "y"})
	if got := r.Get("list"); !reflect.DeepEqual(got, []any{"x", "y"}) {
		t.Errorf("Expected list [x y], got %#v", got)
	}

	if r.Has("nonexistent") {
		t.Errorf("Expected nonexistent key to not exist")
	}
	if r.IsEmpty() {
		t.Errorf("Expected repository to not be empty")
	}
}

func testGetDefault(t *testing.T, r repo.IRepository) {
	if got := r.Get("missing"); got != nil {
		t.Errorf("Expected nil for a missing key without default, got %v", got)
	}
	if got := r.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("Expected default fallback, got %v", got)
	}
}

func testSetNil(t *testing.T, r repo.IRepository) {
	r.Set("key", "value")
	r.Set("key", nil)
	if r.Has("key") {
		t.Errorf("Expected Set(nil) to remove the key")
	}
	if got := r.Get("key", "default"); got != "default" {
		t.Errorf("Expected default after Set(nil), got %v", got)
	}
}

func testUnset(t *testing.T, r repo.IRepository) {
	r.Set("a", 1)
	r.Set("b", 2)
	r.Unset("a")
	if r.Has("a") {
		t.Errorf("Expected key a to be removed")
	}
	if !r.Has("b") {
		t.Errorf("Expected key b to survive")
	}

	// no-op
	r.Unset("nonexistent")
	if keys := r.GetKeys(); !reflect.DeepEqual(keys, []string{"b"}) {
		t.Errorf("Expected keys [b], got %v", keys)
	}
}

func testClear(t *testing.T, r repo.IRepository) {
	r.Set("a", 1)
	r.Clear()
	if !r.IsEmpty() {
		t.Errorf("Expected repository to be empty after Clear")
	}
	if len(r.GetKeys()) != 0 {
		t.Errorf("Expected no keys after Clear, got %v", r.GetKeys())
	}
}

func testKeyOrder(t *testing.T, r repo.IRepository) {
	expected := []string{"zeta", "alpha", "mid"}
	for _, key := range expected {
		r.Set(key, key)
	}
	r.Set("alpha", "again")

	if keys := r.GetKeys(); !reflect.DeepEqual(keys, expected) {
		t.Errorf("Expected insertion order %v, got %v", expected, keys)
	}

	values := r.GetValues()
	var got []string
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		got = append(got, pair.Key)
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected value order %v, got %v", expected, got)
	}
	if v, _ := values.Get("alpha"); v != "again" {
		t.Errorf("Expected value again for alpha, got %v", v)
	}
}

func testMerge(t *testing.T, factory RepositoryFactory) {
	// disjoint keys are united
	r := factory()
	r.Set("a", "1")
	r.Merge(repo.Values{"b": "2"})
	if !r.Has("a") || !r.Has("b") {
		t.Errorf("Expected keys a and b after merge, got %v", r.GetKeys())
	}

	// scalar collisions accumulate by default, source last
	r = factory()
	r.Set("a", "dest")
	r.Merge(repo.Values{"a": "source"})
	if got := r.Get("a"); !reflect.DeepEqual(got, []any{"dest", "source"}) {
		t.Errorf("Expected accumulated [dest source], got %#v", got)
	}

	// without override the existing data is applied last
	r = factory()
	r.Set("a", "dest")
	r.Merge(repo.Values{"a": "source"}, repo.WithOverride(false))
	if got := r.Get("a"); !reflect.DeepEqual(got, []any{"source", "dest"}) {
		t.Errorf("Expected accumulated [source dest], got %#v", got)
	}

	// override collision policy
	r = factory()
	r.Set("a", "dest")
	r.Merge(repo.Values{"a": "source"}, repo.WithCollision(node.CollisionOverride))
	if got := r.Get("a"); got != "source" {
		t.Errorf("Expected source to win, got %#v", got)
	}

	// shallow merge never accumulates
	r = factory()
	r.Set("a", "dest")
	r.Merge(repo.Values{"a": "source"}, repo.WithRecursive(false), repo.WithOverride(false))
	if got := r.Get("a"); got != "dest" {
		t.Errorf("Expected dest to win a shallow merge without override, got %#v", got)
	}
}

func testReplace(t *testing.T, factory RepositoryFactory) {
	r := factory()
	r.Set("a", "dest")
	r.Set("b", "keep")
	r.Replace(repo.Values{"a": "source", "c": "new"})
	if got := r.Get("a"); got != "source" {
		t.Errorf("Expected source to replace dest, got %#v", got)
	}
	if got := r.Get("b"); got != "keep" {
		t.Errorf("Expected b to be kept, got %#v", got)
	}
	if got := r.Get("c"); got != "new" {
		t.Errorf("Expected c to be added, got %#v", got)
	}

	r = factory()
	r.Set("a", "dest")
	r.Replace(repo.Values{"a": "source"}, repo.WithOverride(false))
	if got := r.Get("a"); got != "dest" {
		t.Errorf("Expected dest to be kept without override, got %#v", got)
	}
}

func testArray(t *testing.T, r repo.IRepository) {
	r.FromArray(map[string]any{"a": "1", "b": map[string]any{"c": "2"}})
	expected := map[string]any{"a": "1", "b": map[string]any{"c": "2"}}
	if got := r.ToArray(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	r.FromArray(nil)
	if !r.IsEmpty() {
		t.Errorf("Expected FromArray(nil) to empty the repository")
	}
}

func testJSON(t *testing.T, r repo.IRepository) {
	r.Set("name", "Grüße ✓")
	r.Set("html", "<b>&</b>")

	out, err := r.ToJSON()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "Grüße ✓") {
		t.Errorf("Expected non-ASCII characters verbatim, got %s", out)
	}
	if !strings.Contains(out, "<b>&</b>") {
		t.Errorf("Expected html characters verbatim, got %s", out)
	}

	if err := r.FromJSON(`{"z":"last","a":{"b":"nested"}}`); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if r.Has("name") {
		t.Errorf("Expected FromJSON to replace the content")
	}
	if keys := r.GetKeys(repo.WithMaxDepth(1)); !reflect.DeepEqual(keys, []string{"z", "a"}) {
		t.Errorf("Expected document order [z a], got %v", keys)
	}
	if got := r.Get("a"); !reflect.DeepEqual(got, map[string]any{"b": "nested"}) {
		t.Errorf("Expected nested mapping, got %#v", got)
	}
}

func testMalformedJSON(t *testing.T, r repo.IRepository) {
	r.Set("keep", "me")

	for _, input := range []string{`{"a":`, `not json`, `"scalar"`, ``} {
		err := r.FromJSON(input)
		if err == nil {
			t.Errorf("Expected an error for %q", input)
			continue
		}
		var decodeErr *codec.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("Expected a *codec.DecodeError for %q, got %T", input, err)
		}
	}

	if got := r.Get("keep"); got != "me" {
		t.Errorf("Expected content to be untouched after failed decode, got %v", got)
	}
}
