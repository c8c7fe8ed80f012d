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
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// IQLayerNum identifies the layer
	IQLayerNum = 1998
	// IQHeaderSize is the size of the data frame header: two header bytes
	// plus a 16-bit sequence number
	IQHeaderSize = 4
)

// Data frame headers. The receiver emits large UDP frames while the total
// data rate is high enough and switches to small frames below that. The
// 24-bit headers are recognized so that frames in that format are not
// misread as 16-bit samples, but their payload is not decoded.
const (
	IQHeader16Large uint16 = 0x8404
	IQHeader16Small uint16 = 0x8204
	IQHeader24Large uint16 = 0x85A4
	IQHeader24Small uint16 = 0x8184
)

// IQLayer is one streaming data frame: a header word, a wrapping sequence
// number and a payload of interleaved little-endian I/Q samples.
type IQLayer struct {
	layers.BaseLayer
	Header uint16
	Seq    uint16
}

var IQLayerType = gopacket.RegisterLayerType(IQLayerNum,
	gopacket.LayerTypeMetadata{Name: "IQLayerType", Decoder: gopacket.DecodeFunc(DecodeIQLayer)})

func (iq *IQLayer) LayerType() gopacket.LayerType {
	return IQLayerType
}

// SampleBits returns the sample width announced by the frame header,
// or 0 if the header is not one of the documented patterns.
func (iq *IQLayer) SampleBits() int {
	switch iq.Header {
	case IQHeader16Large, IQHeader16Small:
		return 16
	case IQHeader24Large, IQHeader24Small:
		return 24
	default:
		return 0
	}
}

// SerializeTo serializes the frame header into bytes and writes the bytes
// to the SerializeBuffer. Sample payload is carried as the next layer.
func (iq *IQLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(IQHeaderSize)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(bytes[0:2], iq.Header)
	binary.LittleEndian.PutUint16(bytes[2:4], iq.Seq)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a data frame.
// Unknown headers are not an error here, the caller decides what to do
// with frames it can not use.
func (iq *IQLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < IQHeaderSize {
		df.SetTruncated()
		return errors.New("Data frame too short")
	}

	iq.Header = binary.LittleEndian.Uint16(data[0:2])
	iq.Seq = binary.LittleEndian.Uint16(data[2:4])
	iq.BaseLayer = layers.BaseLayer{
		Contents: data[0:IQHeaderSize],
		Payload:  data[IQHeaderSize:],
	}
	return nil
}

func (iq *IQLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func DecodeIQLayer(data []byte, p gopacket.PacketBuilder) error {
	iq := &IQLayer{}
	err := iq.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(iq)
	return p.NextDecoder(iq.NextLayerType())
}
