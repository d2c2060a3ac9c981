// Package logger provides structured logging for datakit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("joining")
//	log.Warn("joined provider lacks batch key lookup", logger.Fields("alias", "dept"))
package logger
