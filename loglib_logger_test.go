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
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		desc     string
		maxSize  uint64
		maxFiles int
		wantErr  error
	}{
		{"max_size_255_fails", 255, 2, ErrMaxSizeTooSmall},
		{"max_size_256_succeeds", 256, 2, nil},
		{"max_files_0_fails", 1024, 0, ErrInvalidMaxFiles},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := New("test", t.TempDir(), "app.log", tc.maxSize, tc.maxFiles, false)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("New() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	if _, err := New("test", dir, "app.log", 1024, 2, false); err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "app.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestSetLogLevel(t *testing.T) {
	lg, err := New("test", t.TempDir(), "app.log", 4096, 2, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if got := lg.CurrentLevel(); got != DebugLevel {
		t.Errorf("CurrentLevel() = %v, want the %v default", got, DebugLevel)
	}

	lg.SetLogLevel(ErrorLevel)
	if got := lg.CurrentLevel(); got != ErrorLevel {
		t.Errorf("CurrentLevel() = %v, want %v", got, ErrorLevel)
	}
}

func TestSetLogLevelIgnoresInvalidLevel(t *testing.T) {
	lg, err := New("test", t.TempDir(), "app.log", 4096, 2, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	lg.SetLogLevel(ErrorLevel)

	invalid, err := ParseLevel(99)
	if err == nil {
		t.Fatal("ParseLevel(99) succeeded, want error")
	}

	// The invalid level returned alongside the error must not poison the
	// threshold: neither CurrentLevel nor Log may panic afterwards.
	lg.SetLogLevel(invalid)
	if got := lg.CurrentLevel(); got != ErrorLevel {
		t.Errorf("CurrentLevel() = %v, want %v unchanged", got, ErrorLevel)
	}
	lg.Error("still writable")

	negative, err := ParseLevel(-1)
	if err == nil {
		t.Fatal("ParseLevel(-1) succeeded, want error")
	}
	lg.SetLogLevel(negative)
	if got := lg.CurrentLevel(); got != ErrorLevel {
		t.Errorf("CurrentLevel() = %v, want %v unchanged", got, ErrorLevel)
	}
}

func TestLogFiltering(t *testing.T) {
	dir := t.TempDir()
	lg, err := New("T", dir, "app.log", 1024, 2, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	path := filepath.Join(dir, "app.log")

	// All records below the threshold are dropped, the file stays empty.
	lg.SetLogLevel(WarningLevel)
	for i := 0; i < 20; i++ {
		lg.Infof("info record %02d", i)
	}

	if lines := readLines(t, path); len(lines) != 0 {
		t.Fatalf("got %d lines with threshold %v, want 0", len(lines), WarningLevel)
	}

	// Lowering the threshold lets the same ~60 byte records through, with a
	// single rotation once the cumulative size exceeds the 1024 byte cap.
	lg.SetLogLevel(InfoLevel)
	for i := 0; i < 20; i++ {
		lg.Infof("info record %02d", i)
	}

	var written []string
	for _, line := range readLines(t, path) {
		if strings.Contains(line, rotationMarkerPrefix) {
			continue
		}
		written = append(written, line)
	}
	backup := readLines(t, filepath.Join(dir, "app.log.1"))
	written = append(written, backup...)

	if len(written) != 20 {
		t.Errorf("got %d caller records across app.log and app.log.1, want 20", len(written))
	}

	if _, err := os.Stat(filepath.Join(dir, "app.log.1")); err != nil {
		t.Errorf("expected one rotation, app.log.1 missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "app.log.2")); err == nil {
		t.Error("app.log.2 exists, want at most 2 files with maxFiles=2")
	}

	current := readLines(t, path)
	if len(current) == 0 || !strings.Contains(current[0], rotationMarkerPrefix) {
		t.Error("post-rotation file does not start with the rotation marker")
	}
}

func TestLevelHelpers(t *testing.T) {
	dir := t.TempDir()
	lg, err := New("test", dir, "app.log", 65536, 2, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	lg.SetLogLevel(TraceLevel)

	tests := []struct {
		desc string
		fn   func(args ...any)
		fnf  func(format string, args ...any)
		want string
	}{
		{"trace", lg.Trace, lg.Tracef, "TRACE"},
		{"debug", lg.Debug, lg.Debugf, "DEBUG"},
		{"info", lg.Info, lg.Infof, "INFO"},
		{"warn", lg.Warn, lg.Warnf, "WARNING"},
		{"error", lg.Error, lg.Errorf, "ERROR"},
		{"fatal", lg.Fatal, lg.Fatalf, "FATAL"},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			tc.fn("plain ", tc.desc)
			tc.fnf("formatted %s", tc.desc)
		})
	}

	lines := readLines(t, filepath.Join(dir, "app.log"))
	if len(lines) != 2*len(tests) {
		t.Fatalf("got %d lines, want %d", len(lines), 2*len(tests))
	}

	for i, tc := range tests {
		plain, formatted := lines[2*i], lines[2*i+1]
		if !strings.Contains(plain, " "+tc.want+" ") || !strings.HasSuffix(plain, "plain "+tc.desc) {
			t.Errorf("line %d = %q, want a %s record ending in %q", 2*i, plain, tc.want, "plain "+tc.desc)
		}
		if !strings.Contains(formatted, " "+tc.want+" ") || !strings.HasSuffix(formatted, "formatted "+tc.desc) {
			t.Errorf("line %d = %q, want a %s record ending in %q", 2*i+1, formatted, tc.want, "formatted "+tc.desc)
		}
	}
}

func TestConcurrentWriters(t *testing.T) {
	const writers = 8
	const writesPerWriter = 50

	dir := t.TempDir()
	lg, err := New("test", dir, "app.log", 16384, 4, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	lg.SetLogLevel(TraceLevel)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < writesPerWriter; i++ {
				lg.Infof("writer %d record %d", w, i)
			}
		}(w)
	}
	wg.Wait()

	var lines []string
	lines = append(lines, readLines(t, filepath.Join(dir, "app.log"))...)
	for i := 1; i < 4; i++ {
		backup := filepath.Join(dir, fmt.Sprintf("app.log.%d", i))
		if _, err := os.Stat(backup); err == nil {
			lines = append(lines, readLines(t, backup)...)
		}
	}

	var records int
	for _, line := range lines {
		if !recordLine.MatchString(line) {
			t.Errorf("corrupted record line: %q", line)
		}
		if !strings.Contains(line, rotationMarkerPrefix) {
			records++
		}
	}

	if records != writers*writesPerWriter {
		t.Errorf("got %d caller records, want %d", records, writers*writesPerWriter)
	}
}

func TestSystemOnlyLoggerDropsFileRecords(t *testing.T) {
	lg, err := SystemOnly("test")
	if err != nil {
		t.Fatalf("SystemOnly() failed: %v", err)
	}

	// Must be a silent no-op, there is no file channel to write to.
	lg.Info("dropped")
	lg.Log(ErrorLevel, "dropped as well")
}

func TestPlatformLogUnavailable(t *testing.T) {
	lg, err := FileOnly(t.TempDir(), "app.log", 1024, 2)
	if err != nil {
		t.Fatalf("FileOnly() failed: %v", err)
	}

	if err := lg.PlatformLog(ErrorLevel, "foobar"); !errors.Is(err, ErrSystemLogUnavailable) {
		t.Errorf("PlatformLog() = %v, want %v", err, ErrSystemLogUnavailable)
	}
}

func TestMultipleLoggersAreIndependent(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()

	la, err := New("a", dirA, "a.log", 4096, 2, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	lb, err := New("b", dirB, "b.log", 4096, 2, false)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	la.SetLogLevel(ErrorLevel)
	lb.SetLogLevel(TraceLevel)

	la.Info("filtered on a")
	lb.Info("written on b")

	if lines := readLines(t, filepath.Join(dirA, "a.log")); len(lines) != 0 {
		t.Errorf("logger a wrote %d lines, want 0", len(lines))
	}
	if lines := readLines(t, filepath.Join(dirB, "b.log")); len(lines) != 1 {
		t.Errorf("logger b wrote %d lines, want 1", len(lines))
	}
}
