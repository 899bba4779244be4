//  Copyright 2024 Google LLC
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package loglib

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"text/template"
	"time"
)

var (
	// Version is the library version string embedded into the rotation marker
	// record. It can be overridden at build time with -ldflags.
	Version = "dev"

	// TraceLevel is the log level definition for Trace severity.
	TraceLevel = Level{0, "TRACE"}

	// DebugLevel is the log level definition for Debug severity.
	DebugLevel = Level{1, "DEBUG"}

	// InfoLevel is the log level definition for Info severity.
	InfoLevel = Level{2, "INFO"}

	// WarningLevel is the log level definition for Warning severity.
	WarningLevel = Level{3, "WARNING"}

	// ErrorLevel is the log level definition for Error severity.
	ErrorLevel = Level{4, "ERROR"}

	// FatalLevel is the log level definition for Fatal severity.
	FatalLevel = Level{5, "FATAL"}

	// allLevels is the list of all supported log levels, ordered by
	// increasing severity. The slice is indexed by the level's numeric id.
	allLevels = []Level{TraceLevel, DebugLevel, InfoLevel, WarningLevel, ErrorLevel, FatalLevel}

	// ErrMaxSizeTooSmall is returned when a rotation policy is constructed
	// with a max size smaller than the supported minimum.
	ErrMaxSizeTooSmall = errors.New("max size is smaller than the supported minimum")

	// ErrInvalidMaxFiles is returned when a rotation policy is constructed
	// with a max file count smaller than 1.
	ErrInvalidMaxFiles = errors.New("max files must be at least 1")

	// ErrAlreadyInitialized is returned when the global logger is initialized
	// more than once.
	ErrAlreadyInitialized = errors.New("global logger already initialized")

	// ErrSystemLogUnavailable is returned by PlatformLog when the logger has
	// no usable system log backend.
	ErrSystemLogUnavailable = errors.New("system log backend unavailable")
)

const (
	// defaultFileFormat is the format applied to every record written to the
	// log file. Timestamps are rendered in local time with millisecond
	// precision.
	defaultFileFormat = `[{{.When.Format "2006-01-02 15:04:05.000"}}] {{.Level}} PID:{{.Pid}} TID:{{.Tid}} {{.Message}}`

	// rotationMarkerPrefix is the message prefix of the synthetic record
	// appended to a freshly created log file right after a rotation.
	rotationMarkerPrefix = "[ROTATION] Logger restarted — "
)

// processID is cached at package initialization, the process id is immutable
// for the lifetime of the process.
var processID = os.Getpid()

// Level wraps id and description of a log level.
type Level struct {
	// level is the log level numeric id, levels are ordered by increasing
	// severity: Trace < Debug < Info < Warning < Error < Fatal.
	level int
	// tag is the tag to be displayed when writing the log.
	tag string
}

// String returns the string representation of a log level.
func (level Level) String() string {
	return level.tag
}

// ParseLevel returns the log level object for a given level id. In case of
// invalid level id, an error is returned.
func ParseLevel(level int) (Level, error) {
	for _, lvl := range allLevels {
		if lvl.level == level {
			return lvl, nil
		}
	}
	return Level{level: level, tag: "INVALID"}, fmt.Errorf("invalid log level: %d", level)
}

// ValidLevels returns a string representation of all the valid log levels.
func ValidLevels() string {
	var levels []string
	for _, lvl := range allLevels {
		levels = append(levels, fmt.Sprintf("%s(%d)", lvl.tag, lvl.level))
	}
	return strings.Join(levels, ", ")
}

// shouldEmit reports whether a record of the given level passes the
// threshold. A record is emitted iff its severity is greater than or equal to
// the threshold's severity.
func shouldEmit(level, threshold Level) bool {
	return level.level >= threshold.level
}

// LogEntry describes a log record. A LogEntry is immutable once constructed
// and lives only for the duration of a single write call.
type LogEntry struct {
	// Level is the log level of the log record/entry.
	Level Level
	// When is the time when this log record/entry was created.
	When time.Time
	// Pid is the id of the process writing the record.
	Pid int
	// Tid is the id of the goroutine writing the record. It is the closest
	// analogue of a thread id available to the runtime.
	Tid uint64
	// Message is the formated final log message.
	Message string
}

// newEntry sets up the log entry for each logging call.
func newEntry(level Level, msg string) *LogEntry {
	return &LogEntry{
		Level:   level,
		When:    time.Now(),
		Pid:     processID,
		Tid:     goroutineID(),
		Message: msg,
	}
}

// Format processes a template provided in format and return it as a string.
func (en *LogEntry) Format(format string) (string, error) {
	tmpl, err := template.New("").Parse(format)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	buffer := new(strings.Builder)
	if err := tmpl.Execute(buffer, en); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buffer.String(), nil
}

// goroutineID returns the id of the calling goroutine. The runtime does not
// expose the id directly, it's parsed from the goroutine's stack header
// ("goroutine <id> [running]: ...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
