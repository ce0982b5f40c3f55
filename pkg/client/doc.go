// Package client implements the client handle (C7), the typed remote
// surface used by the burrow CLI and any embedding Go program.
package client
