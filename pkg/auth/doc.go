// Package auth provides the bearer-token interceptor pair wired into
// pkg/transport's server when a token is configured.
package auth
