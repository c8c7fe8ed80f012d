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
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spectrumlab/go-netsdr/pkg/log"
)

// IQTimeLayout names capture files down to the second, UTC
const IQTimeLayout = "20060102_150405"

// IQFilename builds the capture file path for a receiver: the samples of
// one persist request go to <dir>/<prefix>_<timestamp>.iq
func IQFilename(dir, prefix string, t time.Time) string {
	return path.Join(dir, fmt.Sprintf("%s_%s.iq", prefix, t.UTC().Format(IQTimeLayout)))
}

// Writer appends raw sample bytes to one capture file
type Writer struct {
	file     *os.File
	filename string
	written  int64
}

func NewWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		log.Error("Error while creating file: %s", filename)
		return nil, err
	}
	log.Info("Capturing to %s", filename)
	return &Writer{
		file:     file,
		filename: filename,
	}, nil
}

func (w *Writer) Write(buf []byte) (int, error) {
	n, err := w.file.Write(buf)
	w.written += int64(n)
	return n, err
}

func (w *Writer) Flush() {
	w.file.Sync()
	w.file.Close()
	log.Info("Closed %s after %d bytes", w.filename, w.written)
}
