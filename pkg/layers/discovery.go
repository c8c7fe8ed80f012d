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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// DiscoveryLayerNum identifies the layer
	DiscoveryLayerNum = 1999
	// DiscoveryMsgSize is the size of the fixed common part of a discovery
	// datagram. Devices may append extended fields after it.
	DiscoveryMsgSize = 56
	// DiscoveryKey0 and DiscoveryKey1 are the magic bytes following the
	// length field of every discovery datagram
	DiscoveryKey0 = 0x5A
	DiscoveryKey1 = 0xA5
)

// Field offsets within the fixed common part
const (
	discoveryOffOp     = 4
	discoveryOffName   = 5
	discoveryOffSerial = 21
	discoveryOffIP     = 37
	discoveryOffPort   = 53
	discoveryOffCustom = 55
)

type DiscoveryOp uint8

const (
	DiscoveryOpRequest  DiscoveryOp = 0
	DiscoveryOpResponse DiscoveryOp = 1
	DiscoveryOpSet      DiscoveryOp = 2
)

func (op DiscoveryOp) String() string {
	switch op {
	case DiscoveryOpRequest:
		return "Request"
	case DiscoveryOpResponse:
		return "Response"
	case DiscoveryOpSet:
		return "Set"
	default:
		return fmt.Sprintf("UnknownDiscoveryOp(%d)", uint8(op))
	}
}

// DiscoveryLayer is the fixed 56-byte discovery datagram. Name and Serial
// are NUL-terminated on the wire. The IP address is stored reversed, the
// first wire byte is the last octet of the printable address.
type DiscoveryLayer struct {
	layers.BaseLayer
	Length uint16
	Op     DiscoveryOp
	Name   string
	Serial string
	IP     net.IP
	Port   uint16
	Custom uint8
}

var DiscoveryLayerType = gopacket.RegisterLayerType(DiscoveryLayerNum,
	gopacket.LayerTypeMetadata{Name: "DiscoveryLayerType", Decoder: gopacket.DecodeFunc(DecodeDiscoveryLayer)})

func (dl *DiscoveryLayer) LayerType() gopacket.LayerType {
	return DiscoveryLayerType
}

// SerializeTo serializes the fixed common part of the discovery datagram
// into bytes and writes the bytes to the SerializeBuffer
func (dl *DiscoveryLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	msg, err := b.PrependBytes(DiscoveryMsgSize)
	if err != nil {
		return err
	}
	for i := range msg {
		msg[i] = 0
	}
	dl.Length = DiscoveryMsgSize
	binary.LittleEndian.PutUint16(msg[0:2], dl.Length)
	msg[2] = DiscoveryKey0
	msg[3] = DiscoveryKey1
	msg[discoveryOffOp] = uint8(dl.Op)
	copy(msg[discoveryOffName:discoveryOffName+15], dl.Name)
	copy(msg[discoveryOffSerial:discoveryOffSerial+15], dl.Serial)
	if ip4 := dl.IP.To4(); ip4 != nil {
		msg[discoveryOffIP] = ip4[3]
		msg[discoveryOffIP+1] = ip4[2]
		msg[discoveryOffIP+2] = ip4[1]
		msg[discoveryOffIP+3] = ip4[0]
	}
	binary.LittleEndian.PutUint16(msg[discoveryOffPort:discoveryOffPort+2], dl.Port)
	msg[discoveryOffCustom] = dl.Custom
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a discovery datagram
func (dl *DiscoveryLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < DiscoveryMsgSize {
		df.SetTruncated()
		return errors.New("Discovery datagram too short")
	}

	if data[2] != DiscoveryKey0 || data[3] != DiscoveryKey1 {
		return errors.New(fmt.Sprintf("Wrong discovery key. Must be 0x%02x 0x%02x", DiscoveryKey0, DiscoveryKey1))
	}

	dl.Length = binary.LittleEndian.Uint16(data[0:2])
	dl.Op = DiscoveryOp(data[discoveryOffOp])
	dl.Name = cstring(data[discoveryOffName : discoveryOffName+16])
	dl.Serial = cstring(data[discoveryOffSerial : discoveryOffSerial+16])
	dl.IP = net.IPv4(data[discoveryOffIP+3], data[discoveryOffIP+2], data[discoveryOffIP+1], data[discoveryOffIP])
	dl.Port = binary.LittleEndian.Uint16(data[discoveryOffPort : discoveryOffPort+2])
	dl.Custom = data[discoveryOffCustom]

	dl.BaseLayer = layers.BaseLayer{
		Contents: data[0:DiscoveryMsgSize],
		Payload:  data[DiscoveryMsgSize:],
	}
	return nil
}

func (dl *DiscoveryLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func DecodeDiscoveryLayer(data []byte, p gopacket.PacketBuilder) error {
	dl := &DiscoveryLayer{}
	err := dl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(dl)
	return p.NextDecoder(dl.NextLayerType())
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
