// Package codec converts repository documents from and to text.
//
// Two codecs are available, selected by name with Get:
//
//   - json: decoding validates with ojg and walks the document with jsonparser,
//     encoding writes with easyjson's jwriter. Integers decode as int64, other
//     numbers as float64.
//   - yaml: goccy/go-yaml with ordered mappings.
//   - hcl: hashicorp/hcl parses literal attributes and blocks, hclwrite writes
//     nested mappings as blocks.
//
// Both keep the insertion order of mappings. Lists decode into branches keyed
// "0".."n-1" and such branches encode back into lists. A scalar document root
// is rejected with a *DecodeError of code ErrCodeUnsupported.
package codec
