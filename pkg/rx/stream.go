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
	"io"
	"net"
	"time"

	"github.com/google/gopacket"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
)

// scale16 maps the 16-bit A/D range onto [-1, 1)
const scale16 = 1.0 / 32768.0

// ReadSamples performs one blocking receive on the data socket and decodes
// the datagram into out, one slice per RF channel in session order. It
// returns the number of samples written to each slice. Zero is a normal
// result, it means the frame was unusable, not that the stream ended.
// A stopped session returns io.EOF without receiving.
func (r *Receiver) ReadSamples(out [][]complex64) (int, error) {
	if len(out) < r.nchan {
		return 0, ErrOutputArity{Want: r.nchan, Got: len(out)}
	}

	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return 0, io.EOF
	}

	n, addr, err := r.data.ReadFromUDP(r.dataBuf)
	if err != nil {
		return 0, err
	}
	return r.decodeFrame(r.dataBuf[:n], addr, out), nil
}

// SetDataDeadline bounds the next receive on the data socket. The core
// never sets one itself, pollers that need to observe Stop use this.
func (r *Receiver) SetDataDeadline(t time.Time) error {
	return r.data.SetReadDeadline(t)
}

// decodeFrame validates one datagram, advances the sequence tracker and
// extracts as many samples as the frame and the output capacity allow
func (r *Receiver) decodeFrame(data []byte, from net.Addr, out [][]complex64) int {
	packet := gopacket.NewPacket(data, layers.IQLayerType, gopacket.Default)
	if packet.ErrorLayer() != nil {
		return 0
	}
	layer := packet.Layer(layers.IQLayerType)
	if layer == nil {
		return 0
	}
	iq := layer.(*layers.IQLayer)

	// 24-bit frames are recognized so they are not misread as 16-bit
	// samples, but they carry nothing for us
	if iq.SampleBits() != 16 {
		return 0
	}

	r.mu.Lock()
	diff := iq.Seq - r.seq
	if iq.Seq == 0xFFFF {
		r.seq = 0
	} else {
		r.seq = iq.Seq
	}
	r.mu.Unlock()
	if diff > 1 {
		r.diag("Lost %d packets from NetSDR at %s", diff, from)
	}

	payload := iq.Payload
	samples := len(payload) / 4 / r.nchan
	for ch := 0; ch < r.nchan; ch++ {
		if samples > len(out[ch]) {
			samples = len(out[ch])
		}
	}

	switch r.nchan {
	case 1:
		for i := 0; i < samples; i++ {
			in := int16(binary.LittleEndian.Uint16(payload[4*i:]))
			qu := int16(binary.LittleEndian.Uint16(payload[4*i+2:]))
			out[0][i] = complex(float32(in)*scale16, float32(qu)*scale16)
		}
	case 2:
		for i := 0; i < samples; i++ {
			base := 8 * i
			i1 := int16(binary.LittleEndian.Uint16(payload[base:]))
			q1 := int16(binary.LittleEndian.Uint16(payload[base+2:]))
			i2 := int16(binary.LittleEndian.Uint16(payload[base+4:]))
			q2 := int16(binary.LittleEndian.Uint16(payload[base+6:]))
			out[0][i] = complex(float32(i1)*scale16, float32(q1)*scale16)
			out[1][i] = complex(float32(i2)*scale16, float32(q2)*scale16)
		}
	}
	return samples
}
