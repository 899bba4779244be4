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
	"os"
	"path/filepath"
	"sync"
)

const (
	// minMaxSizeBytes is the smallest supported max size of a log file. A
	// smaller cap leaves no room for a worst-case record plus the rotation
	// marker line.
	minMaxSizeBytes = 256

	// logFileMode is the permission set applied to created log files.
	logFileMode = 0644

	// logDirMode is the permission set applied to created log directories.
	logDirMode = 0755
)

// RotationPolicy describes when and how a log file is rotated. A policy is
// owned by exactly one file sink and is never shared.
type RotationPolicy struct {
	// Directory is the directory holding the current log file and its
	// numbered backups.
	Directory string
	// BaseName is the file name of the currently open log file. Backups are
	// named BaseName.1, BaseName.2, ... with BaseName.1 being the newest.
	BaseName string
	// MaxSizeBytes is the size cap of the current log file. A write that
	// would push the file past the cap triggers a rotation first; only the
	// single triggering write may exceed it.
	MaxSizeBytes uint64
	// MaxFiles bounds the total number of files kept on disk, the currently
	// open file included. The oldest backup is discarded when the chain is
	// shifted.
	MaxFiles int
}

// validate checks the policy's construction parameters.
func (rp *RotationPolicy) validate() error {
	if rp.MaxSizeBytes < minMaxSizeBytes {
		return fmt.Errorf("%w: got %d bytes, want at least %d", ErrMaxSizeTooSmall, rp.MaxSizeBytes, minMaxSizeBytes)
	}
	if rp.MaxFiles < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxFiles, rp.MaxFiles)
	}
	return nil
}

// fileSink serializes formatted records into a size-rotated log file. All
// write path failures are swallowed, logging is strictly best effort after a
// successful construction.
type fileSink struct {
	// mu guards the whole write critical section: format, rotate check,
	// rotation and append are atomic with respect to concurrent writers.
	mu sync.Mutex
	// policy is the rotation policy owned by this sink.
	policy RotationPolicy
	// appInfo identifies the application in the rotation marker record.
	appInfo string
	// format is the record line format template.
	format string
	// file is the currently open log file. A nil file means the sink is
	// degraded; every subsequent write retries the rotation once and a later
	// success restores the sink.
	file *os.File
	// size is the tracked size of the currently open file in bytes.
	size uint64
	// system is an optional system log backend used to report rotation
	// failures. May be nil.
	system *systemBackend
}

// newFileSink prepares the log directory, opens (or creates) the log file
// and seeds the size counter. Construction is the only point where file
// channel errors are surfaced to the caller.
func newFileSink(policy RotationPolicy, appInfo string, system *systemBackend) (*fileSink, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(policy.Directory, logDirMode); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", policy.Directory, err)
	}

	fs := &fileSink{
		policy:  policy,
		appInfo: appInfo,
		format:  defaultFileFormat,
		system:  system,
	}

	file, err := os.OpenFile(fs.path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", fs.path(), err)
	}

	if info, err := file.Stat(); err == nil {
		fs.size = uint64(info.Size())
	}

	fs.file = file
	return fs, nil
}

// path returns the path of the currently open log file.
func (fs *fileSink) path() string {
	return filepath.Join(fs.policy.Directory, fs.policy.BaseName)
}

// backupPath returns the path of the i-th numbered backup file.
func (fs *fileSink) backupPath(i int) string {
	return filepath.Join(fs.policy.Directory, fmt.Sprintf("%s.%d", fs.policy.BaseName, i))
}

// write formats and appends a single record. It never returns an error;
// failures on the write path are dropped without retry.
func (fs *fileSink) write(entry *LogEntry) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	line, err := entry.Format(fs.format)
	if err != nil {
		return
	}
	line += "\n"

	if fs.file == nil || fs.size+uint64(len(line)) > fs.policy.MaxSizeBytes {
		fs.rotate()
	}

	if fs.file == nil {
		return
	}

	n, _ := fs.file.WriteString(line)
	fs.size += uint64(n)
}

// rotate shifts the backup chain and starts a fresh log file. The numbered
// backups are shifted up by one with the oldest backup discarded so that at
// most MaxFiles files exist on disk; the previously current file becomes
// backup number one. A freshly created file starts with a synthetic rotation
// marker record.
//
// Rotation failures are non fatal: the sink is left with a nil file (write
// disabled) and a later call may restore it. Must be called with mu held.
func (fs *fileSink) rotate() {
	if fs.file != nil {
		fs.file.Close()
		fs.file = nil
	}

	// A degraded sink may have nothing left to rotate out (i.e. the current
	// file was already renamed away before a reopen failed). The chain is
	// shifted only when a current file exists, recovery retries must not
	// consume the retained backups.
	if _, err := os.Stat(fs.path()); err == nil {
		if err := fs.shiftBackups(); err != nil {
			fs.reportFailure(fmt.Sprintf("Failed to rotate log: %v", err))
			return
		}
	}

	file, err := os.OpenFile(fs.path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		fs.reportFailure(fmt.Sprintf("Failed to reopen log: %v", err))
		return
	}

	fs.file = file
	fs.size = 0
	fs.writeMarker()
}

// shiftBackups renames the backup chain one step up. With MaxFiles == 1 no
// backups are kept at all and the current file is simply removed.
func (fs *fileSink) shiftBackups() error {
	if fs.policy.MaxFiles == 1 {
		if err := os.Remove(fs.path()); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	// Discard the oldest backup so the shifted chain stays within bounds.
	os.Remove(fs.backupPath(fs.policy.MaxFiles - 1))

	for i := fs.policy.MaxFiles - 2; i >= 1; i-- {
		src := fs.backupPath(i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := fs.backupPath(i + 1)
		os.Remove(dst)
		if err := os.Rename(src, dst); err != nil {
			return err
		}
	}

	if _, err := os.Stat(fs.path()); err == nil {
		dst := fs.backupPath(1)
		os.Remove(dst)
		if err := os.Rename(fs.path(), dst); err != nil {
			return err
		}
	}

	return nil
}

// writeMarker appends the synthetic rotation marker record to a freshly
// created log file, before any caller supplied record. Must be called with
// mu held and an open file.
func (fs *fileSink) writeMarker() {
	entry := newEntry(DebugLevel, rotationMarkerPrefix+fs.appInfo)
	line, err := entry.Format(fs.format)
	if err != nil {
		return
	}
	line += "\n"

	n, _ := fs.file.WriteString(line)
	fs.size += uint64(n)
}

// reportFailure forwards a file channel failure to the system log backend
// when one is attached. Reporting is best effort and never reaches the
// caller.
func (fs *fileSink) reportFailure(msg string) {
	if fs.system == nil {
		return
	}
	fs.system.submit(newEntry(ErrorLevel, msg))
}
