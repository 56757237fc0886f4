// Package logger provides structured logging for linepar using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields. Logs go to stderr by
// default so stdout stays free for pipeline output.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("loader")
//	log.Debug("chunk read", logger.Fields(logger.FieldLines, 1000))
package logger
