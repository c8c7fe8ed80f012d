/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIQFilename(t *testing.T) {
	stamp := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	got := IQFilename("/data", "main", stamp)
	if got != "/data/main_20240315_103045.iq" {
		t.Errorf("filename: got %s", got)
	}
}

func TestWriterCountsBytes(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "capture.iq")
	w, err := NewWriter(filename)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := w.Write([]byte{1, 2, 3, 4}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if w.written != 12 {
		t.Errorf("written: got %d, want 12", w.written)
	}
	w.Flush()

	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(content) != 12 {
		t.Errorf("file size: got %d, want 12", len(content))
	}
}

// captureSession builds the writer side of a session. The channels are
// unbuffered so each send is observed by the writer goroutine before the
// test moves on.
func captureSession(t *testing.T) (*Session, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		Name:          "main",
		writerCh:      make(chan []byte),
		writerStateCh: make(chan string),
	}
	go sess.runWriter(ctx)
	t.Cleanup(cancel)
	return sess, cancel
}

// waitForFile polls until the file holds want bytes
func waitForFile(t *testing.T, filename string, want int) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		content, err := os.ReadFile(filename)
		if err == nil && len(content) == want {
			return content
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("file %s did not reach %d bytes", filename, want)
	return nil
}

func TestCaptureRotation(t *testing.T) {
	dir := t.TempDir()
	sess, _ := captureSession(t)

	// samples are discarded until the first persist request
	sess.writerCh <- []byte{0xDE, 0xAD}

	first := sess.Persist(dir, "")
	if filepath.Dir(first) != dir {
		t.Fatalf("capture dir: got %s, want %s", filepath.Dir(first), dir)
	}
	if got := filepath.Base(first); got[:5] != "main_" {
		t.Errorf("capture file prefix: got %s, want the session name", got)
	}
	sess.writerCh <- []byte{1, 2, 3, 4}

	// a second persist rotates onto a fresh file, closing the first
	second := sess.Persist(dir, "scan")
	if second == first {
		t.Fatal("second persist reused the first filename")
	}
	sess.writerCh <- []byte{5, 6}

	sess.FlushCapture()
	sess.writerCh <- []byte{0xBE, 0xEF}

	content := waitForFile(t, first, 4)
	if !bytes.Equal(content, []byte{1, 2, 3, 4}) {
		t.Errorf("first capture: got %v", content)
	}
	content = waitForFile(t, second, 2)
	if !bytes.Equal(content, []byte{5, 6}) {
		t.Errorf("second capture: got %v", content)
	}
}

func TestCaptureCreateError(t *testing.T) {
	dir := t.TempDir()
	sess, _ := captureSession(t)

	// an unwritable directory drops the capture back to discarding
	sess.Persist(filepath.Join(dir, "missing", "sub"), "")
	sess.writerCh <- []byte{1, 2, 3}

	// the session still captures once a valid directory arrives
	filename := sess.Persist(dir, "")
	sess.writerCh <- []byte{9, 8}
	sess.FlushCapture()

	content := waitForFile(t, filename, 2)
	if !bytes.Equal(content, []byte{9, 8}) {
		t.Errorf("capture after failed persist: got %v", content)
	}
}

func TestCaptureFlushOnShutdown(t *testing.T) {
	dir := t.TempDir()
	sess, cancel := captureSession(t)

	filename := sess.Persist(dir, "")
	sess.writerCh <- []byte{7, 7, 7}
	cancel()

	content := waitForFile(t, filename, 3)
	if !bytes.Equal(content, []byte{7, 7, 7}) {
		t.Errorf("capture after shutdown: got %v", content)
	}
}
