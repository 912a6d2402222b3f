// Package logging provides the loggers used by hKV.
//
// The loggers implement the logger.ILogger interface of dragonboat and are registered
// as its global logger factory, so every package obtains its logger with
//
//	var log = logging.GetLogger("tree")
//
// and the CLI configures all of them at once with Init("debug"). Output lines look like
//
//	2025/01/02 15:04:05 DEBUG | tree       | promoted dotted key "a.b"
//
// Loggers start at level WARNING, library code therefore stays quiet unless the embedding
// application calls Init.
package logging
