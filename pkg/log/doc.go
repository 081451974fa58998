// Package log wraps the standard library logger with named per-service
// loggers for dataplans.
//
// Every line carries a "[name>]" prefix after the timestamp and level:
//
//	2025/01/02 15:04:05.000000 INFO [store>] loaded 1234 packages from plans.csv
//
// Levels are Info, Warn, Error and Debug. Debug lines are dropped unless debug
// is enabled globally (SetGlobalDebug, the --debug flag) or for one service
// (EnableDebugFor, or a comma separated list in DATAPLANS_DEBUG).
//
// Usage
//
//	l := log.ForService("report")
//	l.Infof("generated %s with %d rows", name, n)
//	l.Debugf("column widths: %v", widths)
//
// The package name shadows the standard library "log"; alias one of them
// when both are needed.
package log
