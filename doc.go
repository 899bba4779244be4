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

// Package loglib implements a thread-safe, dependency-light logging core
// with two output channels: a size-rotated local log file and the host
// operating system's native log facility (syslog on linux, the event log on
// windows). It targets applications that need local diagnostic logging
// without elevated privileges.
//
// # Construction
//
// A [Logger] is constructed per (directory, file name) pair; multiple
// instances may coexist, each owning its own file handle:
//
//	lg, err := loglib.New("myapp", "/var/log/myapp", "app.log", 1<<20, 5, true)
//	if err != nil {
//		// Construction time misconfiguration is the only failure the
//		// caller is expected to handle programmatically.
//	}
//	lg.Infof("started, pid %d", os.Getpid())
//
// Alternatively the process-wide singleton can be installed once and used
// through the global helpers from anywhere in the program:
//
//	if err := loglib.InitGlobalLogger("myapp", "logs", "app.log", 1<<20, 5, false); err != nil {
//		...
//	}
//	loglib.GInfof("started, pid %d", os.Getpid())
//
// # File channel
//
// Records are written as single, newline terminated lines:
//
//	[2006-01-02 15:04:05.000] LEVEL PID:<pid> TID:<tid> <message>
//
// Timestamps are local time with millisecond precision. When a write would
// push the current file past its size cap the file is rotated first: the
// numbered backups shift up by one (the oldest is discarded so at most the
// configured number of files remain on disk), the current file becomes
// backup number one and a fresh file is started with a synthetic rotation
// marker record.
//
// After a successful construction the file channel is strictly best effort:
// any I/O failure drops the affected record silently, by design the library
// never introduces a dependency on a secondary diagnostic channel and never
// blocks or panics in the caller.
//
// # System log channel
//
// [Logger.PlatformLog] is an explicit, separate channel that submits a
// record directly to the OS facility, bypassing both the file sink and the
// instance's level filter. It is the only post-construction operation that
// reports failures, as a plain result value.
//
// # Level filtering
//
// Levels are totally ordered, Trace < Debug < Info < Warning < Error <
// Fatal. A record is written iff its level is at or above the instance's
// threshold; the threshold can be changed at any time with
// [Logger.SetLogLevel] (or [SetGlobalLogLevel] for the singleton) and takes
// effect on the next call.
package loglib
