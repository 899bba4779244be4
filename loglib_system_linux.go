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

//go:build linux

package loglib

import (
	"fmt"
	"log/syslog"
)

// newSystemBackend returns a system log backend writing to the underlying
// system's syslog facility. If syslog is unavailable (i.e. no local syslog
// daemon) the backend degrades to absent and nil is returned.
func newSystemBackend(ident string) *systemBackend {
	writer, err := syslog.New(syslog.LOG_USER|syslog.LOG_INFO, ident)
	if err != nil {
		return nil
	}
	writer.Close()

	return &systemBackend{ident: ident}
}

// submit writes the entry's message to syslog under the backend's identity.
func (sb *systemBackend) submit(entry *LogEntry) error {
	writer, err := syslog.New(syslog.LOG_USER|syslog.LOG_INFO, sb.ident)
	if err != nil {
		return fmt.Errorf("opening syslog: %w", err)
	}
	defer writer.Close()

	if err := syslogFn(writer, entry.Level)(entry.Message); err != nil {
		return fmt.Errorf("writing to syslog: %w", err)
	}

	return nil
}

// syslogFn maps a log level to the syslog writer operation carrying the
// corresponding priority. Trace and Debug collapse into the informational
// priority, Fatal into the error priority.
func syslogFn(writer *syslog.Writer, level Level) func(string) error {
	switch level {
	case WarningLevel:
		return writer.Warning
	case ErrorLevel, FatalLevel:
		return writer.Err
	default:
		return writer.Info
	}
}
