// Package logger is a thin leveled wrapper over the standard log package.
package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

// Level is a logging severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

// ParseLevel maps a level name to a Level. Unknown names map to LevelInfo.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// SetLevel sets the minimum level that is written.
func SetLevel(name string) {
	lvl, ok := ParseLevel(name)
	if !ok {
		log.Printf("WARN: unknown log level %q; using INFO", name)
	}
	current.Store(int32(lvl))
}

// Enabled reports whether messages at lvl are written.
func Enabled(lvl Level) bool {
	return int32(lvl) >= current.Load()
}

func Debugf(format string, v ...any) {
	if Enabled(LevelDebug) {
		log.Printf("DEBUG: "+format, v...)
	}
}

func Infof(format string, v ...any) {
	if Enabled(LevelInfo) {
		log.Printf("INFO: "+format, v...)
	}
}

func Warnf(format string, v ...any) {
	if Enabled(LevelWarn) {
		log.Printf("WARN: "+format, v...)
	}
}

func Errorf(format string, v ...any) {
	if Enabled(LevelError) {
		log.Printf("ERROR: "+format, v...)
	}
}
