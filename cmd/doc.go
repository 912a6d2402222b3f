// Package cmd implements the command-line interface of hKV. Every command
// loads a document (json or yaml, from a file or stdin) into a repository,
// operates on it and prints the result.
//
// The package is organized into several subpackages:
//
//   - document: Commands operating on a document (get, set, keys, merge, query, eval, ...)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set by an environment variable with the prefix HKV_,
// e.g. HKV_FORMAT=yaml. See hkv -help for a list of all commands.
package cmd
