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
	"sync"
)

// systemBackend submits records to the host operating system's native log
// facility. The concrete facility is a build time decision: on linux records
// go to syslog, on windows to the event log. Message formatting and level
// mapping are shared, only the OS call differs.
//
// The underlying OS facilities are safe for concurrent submission, the
// backend adds no locking of its own on the submission path.
type systemBackend struct {
	// ident is the source/application name records are attributed to. It is
	// used as the syslog identity on linux and as the event source name on
	// windows.
	ident string

	// registerMu guards the one-time event source registration. Only the
	// windows implementation uses it.
	registerMu sync.Mutex
	// registered is true once the event source registration has been
	// attempted. Only the windows implementation uses it.
	registered bool
}
