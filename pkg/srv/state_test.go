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
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/discover"
)

func testState(t *testing.T) *State {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.StateFile = filepath.Join(t.TempDir(), "state.db")
	state, err := NewState(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	t.Cleanup(state.Close)
	return state
}

func TestStateUnits(t *testing.T) {
	state := testState(t)

	units, err := state.Units()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("units in a fresh state: got %d, want none", len(units))
	}

	first := &discover.Unit{
		Name:   "NetSDR",
		Serial: "PS000123",
		IP:     net.IPv4(192, 168, 1, 100),
		Port:   50000,
	}
	second := &discover.Unit{
		Name:   "NetSDR",
		Serial: "PS000777",
		IP:     net.IPv4(192, 168, 1, 101),
		Port:   50000,
	}
	for _, u := range []*discover.Unit{first, second} {
		if err := state.SetUnit(u); err != nil {
			t.Fatalf("SetUnit %s: %v", u.Serial, err)
		}
	}

	units, err = state.Units()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("units: got %d, want 2", len(units))
	}
	// bucket iteration is ordered by key, the serial number
	if units[0].Serial != "PS000123" || units[1].Serial != "PS000777" {
		t.Errorf("serials: got %s, %s", units[0].Serial, units[1].Serial)
	}
	if !units[0].IP.Equal(first.IP) {
		t.Errorf("IP: got %s, want %s", units[0].IP, first.IP)
	}
	if units[0].Port != 50000 {
		t.Errorf("port: got %d, want 50000", units[0].Port)
	}
}

func TestStateUnitsRewrite(t *testing.T) {
	state := testState(t)

	u := &discover.Unit{Name: "NetSDR", Serial: "PS000123", IP: net.IPv4(10, 0, 0, 5), Port: 50000}
	if err := state.SetUnit(u); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	// the unit moved, a later pass records the new address under the
	// same serial
	u.IP = net.IPv4(10, 0, 0, 9)
	if err := state.SetUnit(u); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}

	units, err := state.Units()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("units: got %d, want 1", len(units))
	}
	if got := units[0].IP.String(); got != "10.0.0.9" {
		t.Errorf("IP: got %s, want 10.0.0.9", got)
	}
}

func TestStateSettings(t *testing.T) {
	state := testState(t)

	settings, err := state.GetSettings("main")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings != nil {
		t.Fatalf("settings for an unknown receiver: got %+v, want nil", settings)
	}

	want := &Settings{
		Frequency:  14.2e6,
		SampleRate: 250e3,
		Gain:       -20,
		Bandwidth:  34e6,
	}
	if err := state.SetSettings("main", want); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}

	settings, err = state.GetSettings("main")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings == nil {
		t.Fatal("GetSettings returned nil after SetSettings")
	}
	if *settings != *want {
		t.Errorf("settings: got %+v, want %+v", settings, want)
	}

	// other receivers stay untouched
	other, err := state.GetSettings("second")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if other != nil {
		t.Errorf("settings for another receiver: got %+v, want nil", other)
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.StateFile = filepath.Join(t.TempDir(), "state.db")

	state, err := NewState(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if err := state.SetSettings("main", &Settings{Frequency: 7.1e6}); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	state.Close()

	state, err = NewState(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewState after reopen: %v", err)
	}
	defer state.Close()

	settings, err := state.GetSettings("main")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings == nil || settings.Frequency != 7.1e6 {
		t.Errorf("settings after reopen: got %+v", settings)
	}
}
