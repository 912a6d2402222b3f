package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/hKV/lib/repo"
)

// RunRepositoryBenchmarks runs all benchmarks for a repository implementation.
// Repositories are not safe for concurrent use, so unlike database benchmarks
// these run sequentially.
func RunRepositoryBenchmarks(b *testing.B, name string, factory RepositoryFactory) {
	b.Run("Set", func(b *testing.B) {
		benchmarkSet(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("Has(not)", func(b *testing.B) {
		benchmarkHasNot(b, factory())
	})

	b.Run("GetKeys", func(b *testing.B) {
		benchmarkGetKeys(b, factory())
	})

	b.Run("Merge", func(b *testing.B) {
		benchmarkMerge(b, factory())
	})

	b.Run("ToJSON", func(b *testing.B) {
		benchmarkToJSON(b, factory())
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func fill(r repo.IRepository, n int) {
	for i := 0; i < n; i++ {
		r.Set(fmt.Sprintf("test-key-%d", i), fmt.Sprintf("test-value-%d", i))
	}
}

func benchmarkSet(b *testing.B, r repo.IRepository) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Set(fmt.Sprintf("test-key-%d", i%10000), i)
	}
}

func benchmarkGet(b *testing.B, r repo.IRepository) {
	numKeys := 10000
	fill(r, numKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Get(fmt.Sprintf("test-key-%d", i%numKeys))
	}
}

func benchmarkHasNot(b *testing.B, r repo.IRepository) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Has("test-key")
	}
}

func benchmarkGetKeys(b *testing.B, r repo.IRepository) {
	fill(r, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.GetKeys()
	}
}

func benchmarkMerge(b *testing.B, r repo.IRepository) {
	source := repo.Values{}
	for i := 0; i < 100; i++ {
		source[fmt.Sprintf("test-key-%d", i)] = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Clear()
		r.Merge(source)
	}
}

func benchmarkToJSON(b *testing.B, r repo.IRepository) {
	fill(r, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.ToJSON(); err != nil {
			b.Fatal(err)
		}
	}
}
