// Package log provides the logging abstraction used by boxcar components.
//
// It defines a Logger interface that can be implemented by any logging
// library. Adapters are provided for zerolog and a no-op logger for
// embedding and testing.
//
// # Usage
//
// Use the zerolog adapter for console output:
//
//	logger := log.NewZerologAdapter()
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// # Custom Loggers
//
// Implement the Logger interface to integrate with your existing logging
// infrastructure:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field)  { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field)  { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
