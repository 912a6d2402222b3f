// Package repo provides the interfaces of the key-value repositories of hKV and the
// options shared by their enumeration and combination operations.
//
// Key Components:
//
//   - IReadonlyRepository / IRepository: The read and read-write surface every repository
//     implements. Absence of a key is never an error: Has reports it as false and Get
//     returns the given default. The only failing operation is decoding a malformed
//     document (FromJSON), which returns a *codec.DecodeError and leaves the content untouched.
//
//   - IHierarchicalRepository: A repository whose keys are paths joined by a separator
//     (default "."). It adds Attach/Shared to operate on a root that is shared with
//     another holder.
//
//   - Options: Functional options for GetKeys, GetValues, Merge and Replace.
//
// Implementations:
//
//	- Hierarchical Repository (tree): Nested node tree addressed by paths.
//	  Available in the "github.com/ValentinKolb/hKV/lib/repo/tree" package.
//
//	- Flat Repository (flat): Single level ordered map, keys are taken literally.
//	  Available in the "github.com/ValentinKolb/hKV/lib/repo/flat" package.
//
// Wrappers exposing a read-only or a read-write view of a repository live in the
// "github.com/ValentinKolb/hKV/lib/repo/container" package.
//
// Thread Safety:
//
//	Repositories are not safe for concurrent use. Callers sharing a repository between
//	goroutines must serialize access themselves.
package repo
