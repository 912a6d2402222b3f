// Package flat implements a single level key-value repository on top of an
// insertion ordered map. It is the un-nested counterpart of the tree package:
// keys are never split, "a.b" is just a key.
//
// Merge and Replace share their semantics with the hierarchical repository
// (see repo.Options), enumeration options are ignored. Attach binds the
// repository to an ordered map owned by someone else, FromArray and FromJSON
// write into it, Clear detaches.
//
// The repository is not safe for concurrent use.
package flat
