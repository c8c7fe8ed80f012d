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

package layers

import (
	"net"
	"testing"

	"github.com/google/gopacket"
)

// buildDiscoveryResponse assembles a discovery response datagram the way a
// unit on the network would answer: name and serial NUL-terminated, IP
// bytes reversed, port little-endian.
func buildDiscoveryResponse(name, serial string, ip net.IP, port uint16) []byte {
	msg := make([]byte, DiscoveryMsgSize)
	msg[0] = DiscoveryMsgSize // length, little-endian
	msg[2] = DiscoveryKey0
	msg[3] = DiscoveryKey1
	msg[4] = uint8(DiscoveryOpResponse)
	copy(msg[5:20], name)
	copy(msg[21:36], serial)
	ip4 := ip.To4()
	msg[37] = ip4[3]
	msg[38] = ip4[2]
	msg[39] = ip4[1]
	msg[40] = ip4[0]
	msg[53] = byte(port)
	msg[54] = byte(port >> 8)
	return msg
}

func TestDiscoveryLayerDecode(t *testing.T) {
	data := buildDiscoveryResponse("NetSDR", "PS000123", net.IPv4(192, 168, 1, 100), 50000)

	var dl DiscoveryLayer
	if err := dl.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		t.Fatalf("DecodeFromBytes: %v", err)
	}
	if dl.Op != DiscoveryOpResponse {
		t.Errorf("Op: got %v, want %v", dl.Op, DiscoveryOpResponse)
	}
	if dl.Name != "NetSDR" {
		t.Errorf("Name: got %q, want %q", dl.Name, "NetSDR")
	}
	if dl.Serial != "PS000123" {
		t.Errorf("Serial: got %q, want %q", dl.Serial, "PS000123")
	}
	if dl.IP.String() != "192.168.1.100" {
		t.Errorf("IP: got %s, want 192.168.1.100", dl.IP)
	}
	if dl.Port != 50000 {
		t.Errorf("Port: got %d, want 50000", dl.Port)
	}
}

func TestDiscoveryLayerSerializeRequest(t *testing.T) {
	dl := &DiscoveryLayer{Op: DiscoveryOpRequest}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, dl); err != nil {
		t.Fatalf("SerializeLayers: %v", err)
	}
	msg := buf.Bytes()
	if len(msg) != DiscoveryMsgSize {
		t.Fatalf("message size: got %d, want %d", len(msg), DiscoveryMsgSize)
	}
	compareBytes(t, "header", msg[0:5], []byte{DiscoveryMsgSize, 0x00, DiscoveryKey0, DiscoveryKey1, 0x00})
	for i, b := range msg[5:] {
		if b != 0 {
			t.Errorf("request byte %d not zero: 0x%02x", i+5, b)
		}
	}
}

func TestDiscoveryLayerRoundTrip(t *testing.T) {
	out := &DiscoveryLayer{
		Op:     DiscoveryOpResponse,
		Name:   "CloudIQ",
		Serial: "CI00042",
		IP:     net.IPv4(10, 1, 2, 3),
		Port:   50101,
	}
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, out); err != nil {
		t.Fatalf("SerializeLayers: %v", err)
	}

	var in DiscoveryLayer
	if err := in.DecodeFromBytes(buf.Bytes(), gopacket.NilDecodeFeedback); err != nil {
		t.Fatalf("DecodeFromBytes: %v", err)
	}
	if in.Name != out.Name || in.Serial != out.Serial || in.Port != out.Port {
		t.Errorf("round trip mismatch: %+v", in)
	}
	if in.IP.String() != "10.1.2.3" {
		t.Errorf("IP: got %s, want 10.1.2.3", in.IP)
	}
}

func TestDiscoveryLayerErrors(t *testing.T) {
	good := buildDiscoveryResponse("NetSDR", "PS000123", net.IPv4(192, 168, 1, 100), 50000)

	t.Run("too short", func(t *testing.T) {
		var dl DiscoveryLayer
		if err := dl.DecodeFromBytes(good[:20], gopacket.NilDecodeFeedback); err == nil {
			t.Error("DecodeFromBytes accepted a short datagram")
		}
	})
	t.Run("bad key", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[2] = 0x00
		var dl DiscoveryLayer
		if err := dl.DecodeFromBytes(bad, gopacket.NilDecodeFeedback); err == nil {
			t.Error("DecodeFromBytes accepted a datagram with a wrong key")
		}
	})
}
