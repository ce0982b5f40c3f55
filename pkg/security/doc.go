// Package security provides GenerateSelfSigned, the identity material for
// the HTTPS transport variant.
package security
