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
	"fmt"
	"sync/atomic"
)

// Logger composes the level filter, the rotating file sink and the optional
// system log backend into one addressable instance. Multiple Logger
// instances may coexist, each independently owning its file handle and size
// counter; instances never contend with each other.
//
// A Logger has no closed state, its resources are released at process exit.
type Logger struct {
	// source is the application/source name of this logger.
	source string
	// threshold holds the numeric id of the minimum level a record must meet
	// to be written to the file channel.
	threshold atomic.Int32
	// file is the rotating file sink, nil for system-only loggers.
	file *fileSink
	// system is the system log backend, nil when disabled or unavailable.
	system *systemBackend
}

// New returns a Logger writing to a size-rotated log file named fileName
// under directory. The log directory is created if absent. With
// alsoSystemLog set the logger additionally carries a system log backend
// identified by source, reachable through [Logger.PlatformLog].
//
// New fails if maxSizeBytes is smaller than 256 bytes, maxFiles is smaller
// than 1 or the log directory can not be prepared. Those are the only file
// channel failures ever surfaced; after a successful construction the file
// channel is strictly best effort.
func New(source, directory, fileName string, maxSizeBytes uint64, maxFiles int, alsoSystemLog bool) (*Logger, error) {
	var system *systemBackend
	if alsoSystemLog {
		system = newSystemBackend(source)
	}

	policy := RotationPolicy{
		Directory:    directory,
		BaseName:     fileName,
		MaxSizeBytes: maxSizeBytes,
		MaxFiles:     maxFiles,
	}

	file, err := newFileSink(policy, fmt.Sprintf("%s v%s", source, Version), system)
	if err != nil {
		return nil, err
	}

	return newLogger(source, file, system), nil
}

// FileOnly returns a Logger writing to a size-rotated log file and carrying
// no system log backend. See [New] for the failure modes.
func FileOnly(directory, fileName string, maxSizeBytes uint64, maxFiles int) (*Logger, error) {
	return New("unnamed", directory, fileName, maxSizeBytes, maxFiles, false)
}

// SystemOnly returns a Logger carrying only a system log backend identified
// by source. The file channel operations of such a logger silently drop
// every record.
func SystemOnly(source string) (*Logger, error) {
	return newLogger(source, nil, newSystemBackend(source)), nil
}

func newLogger(source string, file *fileSink, system *systemBackend) *Logger {
	lg := &Logger{source: source, file: file, system: system}
	lg.threshold.Store(int32(DebugLevel.level))
	return lg
}

// Log applies the logger's level filter and, when the record passes, writes
// it to the file channel. Records are dropped silently when the logger has
// no file sink or the file channel is degraded; Log never blocks on and
// never reports a write failure.
func (lg *Logger) Log(level Level, message string) {
	if !shouldEmit(level, lg.CurrentLevel()) {
		return
	}
	if lg.file == nil {
		return
	}
	lg.file.write(newEntry(level, message))
}

// PlatformLog submits the record directly to the system log backend,
// bypassing the file channel entirely. The logger's level filter does not
// apply, filtering on this channel is the caller's responsibility.
//
// The returned error indicates that the record did not reach the OS
// facility; it is never escalated beyond the result value and the file
// channel is unaffected.
func (lg *Logger) PlatformLog(level Level, message string) error {
	if lg.system == nil {
		return ErrSystemLogUnavailable
	}
	if err := lg.system.submit(newEntry(level, message)); err != nil {
		return fmt.Errorf("platform log: %w", err)
	}
	return nil
}

// SetLogLevel sets this instance's level threshold. The new threshold takes
// effect on the next call and may be changed at any time from any goroutine.
// A level outside the supported order (i.e. the invalid value returned by
// [ParseLevel] alongside its error) is silently ignored.
func (lg *Logger) SetLogLevel(level Level) {
	if level.level < 0 || level.level >= len(allLevels) {
		return
	}
	lg.threshold.Store(int32(level.level))
}

// CurrentLevel returns this instance's current level threshold.
func (lg *Logger) CurrentLevel() Level {
	return allLevels[lg.threshold.Load()]
}

// Source returns the application/source name of this logger.
func (lg *Logger) Source() string {
	return lg.source
}

// Trace logs to the TRACE log. Arguments are handled in the manner of
// fmt.Print.
func (lg *Logger) Trace(args ...any) {
	lg.Log(TraceLevel, fmt.Sprint(args...))
}

// Tracef logs to the TRACE log. Arguments are handled in the manner of
// fmt.Printf.
func (lg *Logger) Tracef(format string, args ...any) {
	lg.Log(TraceLevel, fmt.Sprintf(format, args...))
}

// Debug logs to the DEBUG log. Arguments are handled in the manner of
// fmt.Print.
func (lg *Logger) Debug(args ...any) {
	lg.Log(DebugLevel, fmt.Sprint(args...))
}

// Debugf logs to the DEBUG log. Arguments are handled in the manner of
// fmt.Printf.
func (lg *Logger) Debugf(format string, args ...any) {
	lg.Log(DebugLevel, fmt.Sprintf(format, args...))
}

// Info logs to the INFO log. Arguments are handled in the manner of
// fmt.Print.
func (lg *Logger) Info(args ...any) {
	lg.Log(InfoLevel, fmt.Sprint(args...))
}

// Infof logs to the INFO log. Arguments are handled in the manner of
// fmt.Printf.
func (lg *Logger) Infof(format string, args ...any) {
	lg.Log(InfoLevel, fmt.Sprintf(format, args...))
}

// Warn logs to the WARNING log. Arguments are handled in the manner of
// fmt.Print.
func (lg *Logger) Warn(args ...any) {
	lg.Log(WarningLevel, fmt.Sprint(args...))
}

// Warnf logs to the WARNING log. Arguments are handled in the manner of
// fmt.Printf.
func (lg *Logger) Warnf(format string, args ...any) {
	lg.Log(WarningLevel, fmt.Sprintf(format, args...))
}

// Error logs to the ERROR log. Arguments are handled in the manner of
// fmt.Print.
func (lg *Logger) Error(args ...any) {
	lg.Log(ErrorLevel, fmt.Sprint(args...))
}

// Errorf logs to the ERROR log. Arguments are handled in the manner of
// fmt.Printf.
func (lg *Logger) Errorf(format string, args ...any) {
	lg.Log(ErrorLevel, fmt.Sprintf(format, args...))
}

// Fatal logs to the FATAL log. Arguments are handled in the manner of
// fmt.Print. Unlike some logging frameworks Fatal does not terminate the
// process, termination is left to the caller.
func (lg *Logger) Fatal(args ...any) {
	lg.Log(FatalLevel, fmt.Sprint(args...))
}

// Fatalf logs to the FATAL log. Arguments are handled in the manner of
// fmt.Printf. Unlike some logging frameworks Fatalf does not terminate the
// process, termination is left to the caller.
func (lg *Logger) Fatalf(format string, args ...any) {
	lg.Log(FatalLevel, fmt.Sprintf(format, args...))
}
