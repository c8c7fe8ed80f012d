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
	"encoding/binary"
	"testing"

	"github.com/google/gopacket"
)

// buildDataFrame assembles a data frame from header, sequence number and
// raw 16-bit sample words
func buildDataFrame(header uint16, seq uint16, words ...int16) []byte {
	frame := make([]byte, IQHeaderSize+2*len(words))
	binary.LittleEndian.PutUint16(frame[0:2], header)
	binary.LittleEndian.PutUint16(frame[2:4], seq)
	for i, w := range words {
		binary.LittleEndian.PutUint16(frame[IQHeaderSize+2*i:], uint16(w))
	}
	return frame
}

func TestIQLayerDecode(t *testing.T) {
	frame := buildDataFrame(IQHeader16Large, 0x0102, 100, -200, 300, -400)

	var iq IQLayer
	if err := iq.DecodeFromBytes(frame, gopacket.NilDecodeFeedback); err != nil {
		t.Fatalf("DecodeFromBytes: %v", err)
	}
	if iq.Header != IQHeader16Large {
		t.Errorf("Header: got 0x%04x, want 0x%04x", iq.Header, IQHeader16Large)
	}
	if iq.Seq != 0x0102 {
		t.Errorf("Seq: got %d, want %d", iq.Seq, 0x0102)
	}
	if len(iq.Payload) != 8 {
		t.Errorf("payload: got %d bytes, want 8", len(iq.Payload))
	}
}

func TestIQLayerSampleBits(t *testing.T) {
	tests := []struct {
		name   string
		header uint16
		want   int
	}{
		{name: "16-bit large", header: IQHeader16Large, want: 16},
		{name: "16-bit small", header: IQHeader16Small, want: 16},
		{name: "24-bit large", header: IQHeader24Large, want: 24},
		{name: "24-bit small", header: IQHeader24Small, want: 24},
		{name: "unknown", header: 0xBEEF, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iq := &IQLayer{Header: tt.header}
			if got := iq.SampleBits(); got != tt.want {
				t.Errorf("SampleBits: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIQLayerTooShort(t *testing.T) {
	var iq IQLayer
	if err := iq.DecodeFromBytes([]byte{0x04, 0x84, 0x00}, gopacket.NilDecodeFeedback); err == nil {
		t.Error("DecodeFromBytes accepted a 3-byte frame")
	}
}

func TestIQLayerSerialize(t *testing.T) {
	iq := &IQLayer{Header: IQHeader16Small, Seq: 7}
	payload := gopacket.Payload([]byte{0x01, 0x00, 0xFF, 0xFF})

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, iq, payload); err != nil {
		t.Fatalf("SerializeLayers: %v", err)
	}
	compareBytes(t, "frame", buf.Bytes(), []byte{0x04, 0x82, 0x07, 0x00, 0x01, 0x00, 0xFF, 0xFF})
}

func TestIQLayerPacket(t *testing.T) {
	frame := buildDataFrame(IQHeader16Small, 41, 1000, -1000)

	packet := gopacket.NewPacket(frame, IQLayerType, gopacket.Default)
	if packet.ErrorLayer() != nil {
		t.Fatalf("packet decode: %v", packet.ErrorLayer().Error())
	}
	layer := packet.Layer(IQLayerType)
	if layer == nil {
		t.Fatal("no data frame layer in packet")
	}
	iq := layer.(*IQLayer)
	if iq.Seq != 41 {
		t.Errorf("Seq: got %d, want 41", iq.Seq)
	}
	app := packet.ApplicationLayer()
	if app == nil {
		t.Fatal("no payload layer in packet")
	}
	if len(app.Payload()) != 4 {
		t.Errorf("payload: got %d bytes, want 4", len(app.Payload()))
	}
}
