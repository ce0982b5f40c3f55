/*
Package log provides structured logging for burrow using zerolog.

The global Logger is configured once via Init at process startup (cmd/burrow)
and is never re-initialized by any other component. Components that want a
logger carrying extra context call one of the With* helpers to derive a
child logger rather than reaching back into global state themselves.

Usage:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: os.Stdout})
	log.Info("server starting")

	treeLog := log.WithTree("inventory")
	treeLog.Debug().Int("count", n).Msg("batch applied")
*/
package log
