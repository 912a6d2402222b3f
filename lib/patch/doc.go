// Package patch applies json patches (RFC 6902) and json merge patches
// (RFC 7386) to document trees using evanphx/json-patch.
//
// Patching goes through the json encoding of the tree, which loses mapping
// order. The order is restored afterwards: keys present before keep their
// position, added keys are appended.
package patch
