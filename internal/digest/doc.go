// Package digest computes content-addressed identities for builds.
//
// Every digest is SHA-256 over a domain prefix, a NUL separator and the
// payload. Structured payloads are serialized as RFC 8785 canonical JSON
// first, so equal inputs hash equally regardless of map iteration order.
package digest
