// Package logger provides structured logging for textstream using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so that stdout stays free for pipeline output.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("transcode")
//	log.Debug("stream exhausted", logger.Fields(logger.FieldCharset, "UTF-8"))
package logger
