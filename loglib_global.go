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
	"sync"
	"sync/atomic"
)

// The process-wide logger slot. The pointer supports lock-free reads on the
// hot logging path while installMu makes initialization a single atomic
// uninitialized -> initialized transition: concurrent initializations have
// exactly one winner and every loser observes ErrAlreadyInitialized.
var (
	globalLogger atomic.Pointer[Logger]
	installMu    sync.Mutex
)

// InitGlobalLogger constructs and installs the process-wide Logger exactly
// once. See [New] for the construction parameters and failure modes. A
// second call after a successful first one fails with
// [ErrAlreadyInitialized] and leaves the installed instance untouched. A
// failed construction leaves the slot empty so initialization may be
// retried.
func InitGlobalLogger(source, directory, fileName string, maxSizeBytes uint64, maxFiles int, alsoSystemLog bool) error {
	return installGlobal(func() (*Logger, error) {
		return New(source, directory, fileName, maxSizeBytes, maxFiles, alsoSystemLog)
	})
}

// InitGlobalLoggerSystemOnly constructs and installs a process-wide Logger
// carrying only a system log backend. The once-only semantics of
// [InitGlobalLogger] apply.
func InitGlobalLoggerSystemOnly(source string) error {
	return installGlobal(func() (*Logger, error) {
		return SystemOnly(source)
	})
}

func installGlobal(construct func() (*Logger, error)) error {
	installMu.Lock()
	defer installMu.Unlock()

	if globalLogger.Load() != nil {
		return ErrAlreadyInitialized
	}

	lg, err := construct()
	if err != nil {
		return err
	}

	globalLogger.Store(lg)
	return nil
}

// GlobalLogger returns the installed process-wide Logger, nil if the global
// logger was never initialized.
func GlobalLogger() *Logger {
	return globalLogger.Load()
}

// SetGlobalLogLevel sets the level threshold of the process-wide Logger. The
// call is a silent no-op if the global logger was never initialized.
func SetGlobalLogLevel(level Level) {
	if lg := globalLogger.Load(); lg != nil {
		lg.SetLogLevel(level)
	}
}

// glog forwards a record to the installed global logger. Records are
// silently dropped before initialization, consistent with the library wide
// policy of not depending on a diagnostic side channel.
func glog(level Level, message string) {
	if lg := globalLogger.Load(); lg != nil {
		lg.Log(level, message)
	}
}

// GTrace logs to the global TRACE log. Arguments are handled in the manner
// of fmt.Print. The record is dropped if the global logger was never
// initialized.
func GTrace(args ...any) {
	glog(TraceLevel, fmt.Sprint(args...))
}

// GTracef logs to the global TRACE log. Arguments are handled in the manner
// of fmt.Printf. The record is dropped if the global logger was never
// initialized.
func GTracef(format string, args ...any) {
	glog(TraceLevel, fmt.Sprintf(format, args...))
}

// GDebug logs to the global DEBUG log. Arguments are handled in the manner
// of fmt.Print. The record is dropped if the global logger was never
// initialized.
func GDebug(args ...any) {
	glog(DebugLevel, fmt.Sprint(args...))
}

// GDebugf logs to the global DEBUG log. Arguments are handled in the manner
// of fmt.Printf. The record is dropped if the global logger was never
// initialized.
func GDebugf(format string, args ...any) {
	glog(DebugLevel, fmt.Sprintf(format, args...))
}

// GInfo logs to the global INFO log. Arguments are handled in the manner of
// fmt.Print. The record is dropped if the global logger was never
// initialized.
func GInfo(args ...any) {
	glog(InfoLevel, fmt.Sprint(args...))
}

// GInfof logs to the global INFO log. Arguments are handled in the manner of
// fmt.Printf. The record is dropped if the global logger was never
// initialized.
func GInfof(format string, args ...any) {
	glog(InfoLevel, fmt.Sprintf(format, args...))
}

// GWarn logs to the global WARNING log. Arguments are handled in the manner
// of fmt.Print. The record is dropped if the global logger was never
// initialized.
func GWarn(args ...any) {
	glog(WarningLevel, fmt.Sprint(args...))
}

// GWarnf logs to the global WARNING log. Arguments are handled in the manner
// of fmt.Printf. The record is dropped if the global logger was never
// initialized.
func GWarnf(format string, args ...any) {
	glog(WarningLevel, fmt.Sprintf(format, args...))
}

// GError logs to the global ERROR log. Arguments are handled in the manner
// of fmt.Print. The record is dropped if the global logger was never
// initialized.
func GError(args ...any) {
	glog(ErrorLevel, fmt.Sprint(args...))
}

// GErrorf logs to the global ERROR log. Arguments are handled in the manner
// of fmt.Printf. The record is dropped if the global logger was never
// initialized.
func GErrorf(format string, args ...any) {
	glog(ErrorLevel, fmt.Sprintf(format, args...))
}

// GFatal logs to the global FATAL log. Arguments are handled in the manner
// of fmt.Print. The record is dropped if the global logger was never
// initialized; the process is never terminated.
func GFatal(args ...any) {
	glog(FatalLevel, fmt.Sprint(args...))
}

// GFatalf logs to the global FATAL log. Arguments are handled in the manner
// of fmt.Printf. The record is dropped if the global logger was never
// initialized; the process is never terminated.
func GFatalf(format string, args ...any) {
	glog(FatalLevel, fmt.Sprintf(format, args...))
}
