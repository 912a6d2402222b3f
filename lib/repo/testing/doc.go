// Package testing provides standardised tests and benchmarks for repositories
// that satisfy the repo.IRepository interface.
//
// The package contains:
//   - RunRepositoryTests: A test suite validating conformance to the IRepository contract
//   - RunRepositoryBenchmarks: Performance tests for common repository operations
//
// Example usage:
//
//	factory := func() repo.IRepository {
//		return tree.New(nil)
//	}
//
//	repotesting.RunRepositoryTests(t, "Tree", factory)
//	repotesting.RunRepositoryBenchmarks(b, "Tree", factory)
package testing
