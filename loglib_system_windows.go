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

//go:build windows

package loglib

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows/svc/eventlog"
)

// defaultEventID is the event id reported with every event log record.
const defaultEventID = 1000

// newSystemBackend returns a system log backend writing to the windows event
// log. The event source is registered lazily on first submission so that
// construction itself never requires elevated privileges.
func newSystemBackend(ident string) *systemBackend {
	return &systemBackend{ident: ident}
}

// submit writes the entry's message to the event log under the backend's
// source name.
func (sb *systemBackend) submit(entry *LogEntry) error {
	if err := sb.register(); err != nil {
		return err
	}

	writer, err := eventlog.Open(sb.ident)
	if err != nil {
		return fmt.Errorf("failed to open eventlog: %w", err)
	}
	defer writer.Close()

	var fn func(uint32, string) error
	switch entry.Level {
	case WarningLevel:
		fn = writer.Warning
	case ErrorLevel, FatalLevel:
		fn = writer.Error
	default:
		fn = writer.Info
	}

	if err := fn(defaultEventID, entry.Message); err != nil {
		return fmt.Errorf("writing to eventlog: %w", err)
	}

	return nil
}

// register installs the event source on the first submission. A source that
// is already present in the registry is not an error.
func (sb *systemBackend) register() error {
	sb.registerMu.Lock()
	defer sb.registerMu.Unlock()

	if sb.registered {
		return nil
	}

	err := eventlog.InstallAsEventCreate(sb.ident, eventlog.Info|eventlog.Warning|eventlog.Error)
	if err != nil && !strings.Contains(err.Error(), "registry key already exists") {
		return fmt.Errorf("failed to install eventlog source: %w", err)
	}

	sb.registered = true
	return nil
}
