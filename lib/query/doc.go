// Package query selects values from repositories with JSONPath expressions.
//
//	hosts, err := query.Select(r, "$.servers[*].host")
//
// The repository is exported to generic values first (mappings and lists), the
// expression is evaluated on that copy, so queries never modify a repository.
package query
