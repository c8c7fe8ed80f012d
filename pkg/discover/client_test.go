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

package discover

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/layers"
)

// fakeUnits binds a loopback socket standing in for the request port and
// answers the first well formed request with one response per unit.
// Junk datagrams are prepended when leadJunk is set.
func fakeUnits(t *testing.T, units []*Unit, leadJunk bool) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("bind fake unit: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 2048)
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		// a real unit only answers a well formed request
		if n != layers.DiscoveryMsgSize ||
			buf[2] != layers.DiscoveryKey0 || buf[3] != layers.DiscoveryKey1 ||
			buf[4] != byte(layers.DiscoveryOpRequest) {
			return
		}
		if leadJunk {
			conn.WriteToUDP([]byte{0xDE, 0xAD, 0xBE, 0xEF}, src)
		}
		for _, u := range units {
			sbuf := gopacket.NewSerializeBuffer()
			if err := gopacket.SerializeLayers(sbuf, gopacket.SerializeOptions{}, &layers.DiscoveryLayer{
				Op:     layers.DiscoveryOpResponse,
				Name:   u.Name,
				Serial: u.Serial,
				IP:     u.IP,
				Port:   u.Port,
			}); err != nil {
				return
			}
			conn.WriteToUDP(sbuf.Bytes(), src)
		}
	}()
	return conn.LocalAddr().(*net.UDPAddr).Port
}

func testClient(requestPort int) *Client {
	c := NewClient(&config.DiscoverConfig{
		Broadcast:   "127.0.0.1",
		RequestPort: requestPort,
	})
	// loopback in CI can be slower than real units on a LAN
	c.Window = 300 * time.Millisecond
	return c
}

func TestDiscover(t *testing.T) {
	want := []*Unit{
		{Name: "NetSDR", Serial: "PS000123", IP: net.IPv4(192, 168, 1, 100).To4(), Port: 50000},
		{Name: "NetSDR", Serial: "PS000456", IP: net.IPv4(192, 168, 1, 101).To4(), Port: 50010},
	}
	c := testClient(fakeUnits(t, want, false))

	units, err := c.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(units) != len(want) {
		t.Fatalf("got %d units, want %d", len(units), len(want))
	}
	for i, w := range want {
		u := units[i]
		if u.Name != w.Name || u.Serial != w.Serial || !u.IP.Equal(w.IP) || u.Port != w.Port {
			t.Errorf("unit %d: got %+v, want %+v", i, u, w)
		}
	}
}

func TestDiscoverNothing(t *testing.T) {
	// a bound but silent socket, nothing will answer
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer conn.Close()

	c := testClient(conn.LocalAddr().(*net.UDPAddr).Port)
	c.Window = 20 * time.Millisecond

	start := time.Now()
	units, err := c.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("got %d units from a silent network", len(units))
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("empty pass took %s", elapsed)
	}
}

func TestDiscoverIgnoresJunk(t *testing.T) {
	want := []*Unit{
		{Name: "NetSDR", Serial: "PS000789", IP: net.IPv4(10, 0, 0, 5).To4(), Port: 50000},
	}
	c := testClient(fakeUnits(t, want, true))

	units, err := c.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want the junk skipped and 1 kept", len(units))
	}
	if units[0].Serial != "PS000789" {
		t.Errorf("unit: got %+v", units[0])
	}
}

func TestDecodeUnit(t *testing.T) {
	sbuf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(sbuf, gopacket.SerializeOptions{}, &layers.DiscoveryLayer{
		Op:     layers.DiscoveryOpResponse,
		Name:   "NetSDR",
		Serial: "PS000123",
		IP:     net.IPv4(192, 168, 1, 100),
		Port:   50000,
	}); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	u, err := DecodeUnit(sbuf.Bytes())
	if err != nil {
		t.Fatalf("DecodeUnit: %v", err)
	}
	if u.Name != "NetSDR" || u.Serial != "PS000123" || u.Port != 50000 {
		t.Errorf("unit: got %+v", u)
	}
	if !u.IP.Equal(net.IPv4(192, 168, 1, 100)) {
		t.Errorf("IP: got %s", u.IP)
	}
}

func TestDecodeUnitRejectsRequest(t *testing.T) {
	sbuf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(sbuf, gopacket.SerializeOptions{},
		&layers.DiscoveryLayer{Op: layers.DiscoveryOpRequest}); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	_, err := DecodeUnit(sbuf.Bytes())
	var nr ErrNotResponse
	if !errors.As(err, &nr) {
		t.Fatalf("got %v, want ErrNotResponse", err)
	}
	if nr.Op != layers.DiscoveryOpRequest {
		t.Errorf("op: got %s", nr.Op)
	}
}

func TestDecodeUnitRejectsShort(t *testing.T) {
	if _, err := DecodeUnit([]byte{0x38, 0x00, 0x5A}); err == nil {
		t.Error("expected an error for a truncated datagram")
	}
}

func TestConnStrings(t *testing.T) {
	u := &Unit{Name: "NetSDR", Serial: "PS000123", IP: net.IPv4(192, 168, 1, 100).To4(), Port: 50000}
	want := "netsdr=192.168.1.100:50000,label='RFSPACE NetSDR SN PS000123'"
	if got := u.ConnString(); got != want {
		t.Errorf("ConnString:\n got %q\nwant %q", got, want)
	}

	if got := ConnStrings(nil); len(got) != 1 || got[0] != DefaultConnString {
		t.Errorf("fallback: got %v", got)
	}
	if got := ConnStrings([]*Unit{u}); len(got) != 1 || got[0] != want {
		t.Errorf("ConnStrings: got %v", got)
	}
}
