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

package rx

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
)

// identifyResponder scripts a fully fitted unit: named, serialized,
// option board 2---S, all four version entries populated
func identifyResponder(cmd []byte) []byte {
	item := layers.ControlItem(binary.LittleEndian.Uint16(cmd[2:4]))
	switch item {
	case layers.ItemName:
		return append([]byte{0x0B, 0x20, 0x01, 0x00}, append([]byte("NetSDR"), 0x00)...)
	case layers.ItemSerialNumber:
		return append([]byte{0x0D, 0x20, 0x02, 0x00}, append([]byte("PS000123"), 0x00)...)
	case layers.ItemOptions:
		return []byte{0x05, 0x20, 0x0A, 0x00, 0x11}
	case layers.ItemVersion:
		switch cmd[4] {
		case layers.VersionBoot:
			return []byte{0x07, 0x20, 0x04, 0x00, cmd[4], 9, 0}
		case layers.VersionFirmware:
			return []byte{0x07, 0x20, 0x04, 0x00, cmd[4], 0x04, 0x01}
		case layers.VersionHardware:
			return []byte{0x07, 0x20, 0x04, 0x00, cmd[4], 4, 0}
		default:
			return []byte{0x07, 0x20, 0x04, 0x00, cmd[4], 2, 7}
		}
	}
	return echo(cmd)
}

func TestIdentify(t *testing.T) {
	r := testReceiver(t, 1, identifyResponder)
	rec := &diagRecorder{}
	r.diag = rec.sink

	r.identify("")

	info := r.Info()
	if info.Name != "NetSDR" {
		t.Errorf("name: got %q, want NetSDR", info.Name)
	}
	if info.Serial != "PS000123" {
		t.Errorf("serial: got %q, want PS000123", info.Serial)
	}
	if !info.Options.X2() || !info.Options.Sound() || info.Options.RefLock() {
		t.Errorf("options: got %s (%#02x)", info.Options, uint8(info.Options))
	}
	if info.BootVersion != 9 || info.FirmwareVersion != 260 || info.HardwareVersion != 4 {
		t.Errorf("versions: got boot=%d fw=%d hw=%d, want 9 260 4",
			info.BootVersion, info.FirmwareVersion, info.HardwareVersion)
	}
	if info.FPGAConfig != 2 || info.FPGAVersion != 7 {
		t.Errorf("FPGA: got %d/%d, want 2/7", info.FPGAConfig, info.FPGAVersion)
	}

	want := "Using NetSDR PS000123 option 2---S BOOT 9 FW 260 HW 4 FPGA 2/7"
	if len(rec.lines) != 1 || rec.lines[0] != want {
		t.Errorf("identification line:\n got %q\nwant %q", strings.Join(rec.lines, "|"), want)
	}
}

func TestIdentifyLabel(t *testing.T) {
	r := testReceiver(t, 1, identifyResponder)
	rec := &diagRecorder{}
	r.diag = rec.sink

	r.identify("shack rig")

	// the label replaces name and serial in the line but not in the info
	if !rec.contains("Using shack rig option") {
		t.Errorf("label not used, got %v", rec.lines)
	}
	if rec.contains("PS000123") {
		t.Errorf("serial leaked into the labeled line: %v", rec.lines)
	}
	if info := r.Info(); info.Name != "NetSDR" || info.Serial != "PS000123" {
		t.Errorf("info not populated under a label: %+v", info)
	}
}

func TestIdentifySilentUnit(t *testing.T) {
	// a unit that answers nothing readable still yields a line
	r := testReceiver(t, 1, func(cmd []byte) []byte {
		return []byte{0x02, 0x00}
	})
	rec := &diagRecorder{}
	r.diag = rec.sink

	r.identify("")

	if len(rec.lines) != 1 || rec.lines[0] != "Using" {
		t.Errorf("got %v, want the bare Using line", rec.lines)
	}
	if info := r.Info(); info != (Info{}) {
		t.Errorf("info from a silent unit: %+v", info)
	}
}

func TestOptionsString(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{opts: 0, want: "-----"},
		{opts: OptionX2, want: "2----"},
		{opts: OptionSound, want: "----S"},
		{opts: OptionX2 | OptionUpConverter | OptionDownConverter | OptionRefLock | OptionSound, want: "2UDRS"},
		{opts: OptionRefLock | OptionSound, want: "---RS"},
	}
	for _, tt := range tests {
		if got := tt.opts.String(); got != tt.want {
			t.Errorf("Options(%#02x).String(): got %q, want %q", uint8(tt.opts), got, tt.want)
		}
	}
}

func TestInfoString(t *testing.T) {
	info := &Info{Name: "NetSDR", Serial: "PS000123"}
	s := info.String()
	if !strings.HasPrefix(s, "---\n") {
		t.Errorf("missing document marker: %q", s)
	}
	if !strings.Contains(s, "Name: NetSDR") || !strings.Contains(s, "Serial: PS000123") {
		t.Errorf("fields missing from %q", s)
	}
}
