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
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// ControlLayerNum identifies the layer
	ControlLayerNum = 1997
	// ControlHeaderSize is the size of the control message header:
	// one length byte, one type byte, two item bytes
	ControlHeaderSize = 4
	// ControlMaxMsgSize is the max size of a control message including the header.
	// The length field is a single byte and it counts itself.
	ControlMaxMsgSize = 0xFF
)

// ControlType is the message type carried in the second header byte.
type ControlType uint8

const (
	ControlTypeSet      ControlType = 0x00
	ControlTypeGet      ControlType = 0x20
	ControlTypeGetRange ControlType = 0x40
)

func (t ControlType) String() string {
	switch t {
	case ControlTypeSet:
		return "Set"
	case ControlTypeGet:
		return "Get"
	case ControlTypeGetRange:
		return "GetRange"
	default:
		return fmt.Sprintf("UnknownControlType(0x%02x)", uint8(t))
	}
}

// ControlItem is a 16-bit little-endian control item id as documented in the
// receiver's interface manual.
type ControlItem uint16

const (
	ItemName             ControlItem = 0x0001
	ItemSerialNumber     ControlItem = 0x0002
	ItemInterfaceVersion ControlItem = 0x0003
	ItemVersion          ControlItem = 0x0004
	ItemStatus           ControlItem = 0x0005
	ItemProductID        ControlItem = 0x0009
	ItemOptions          ControlItem = 0x000A
	ItemSecurityCode     ControlItem = 0x000B
	ItemReceiverState    ControlItem = 0x0018
	ItemChannelSetup     ControlItem = 0x0019
	ItemFrequency        ControlItem = 0x0020
	ItemRFGain           ControlItem = 0x0038
	ItemRFFilter         ControlItem = 0x0044
	ItemADMode           ControlItem = 0x008A
	ItemSampleRate       ControlItem = 0x00B8
	ItemPacketSize       ControlItem = 0x00C4
	ItemUDPAddr          ControlItem = 0x00C5
)

var controlItemNames = map[ControlItem]string{
	ItemName:             "Name",
	ItemSerialNumber:     "SerialNumber",
	ItemInterfaceVersion: "InterfaceVersion",
	ItemVersion:          "Version",
	ItemStatus:           "Status",
	ItemProductID:        "ProductID",
	ItemOptions:          "Options",
	ItemSecurityCode:     "SecurityCode",
	ItemReceiverState:    "ReceiverState",
	ItemChannelSetup:     "ChannelSetup",
	ItemFrequency:        "Frequency",
	ItemRFGain:           "RFGain",
	ItemRFFilter:         "RFFilter",
	ItemADMode:           "ADMode",
	ItemSampleRate:       "SampleRate",
	ItemPacketSize:       "PacketSize",
	ItemUDPAddr:          "UDPAddr",
}

func (i ControlItem) String() string {
	name, ok := controlItemNames[i]
	if !ok {
		return fmt.Sprintf("UnknownControlItem(0x%04x)", uint16(i))
	}
	return name
}

// Version sub-indexes for ItemVersion
const (
	VersionBoot     uint8 = 0
	VersionFirmware uint8 = 1
	VersionHardware uint8 = 2
	VersionFPGA     uint8 = 3
)

// ItemReceiverState parameter bytes
const (
	StateDataComplex uint8 = 0x80
	StateRun         uint8 = 0x02
	StateIdle        uint8 = 0x01
	StateContiguous  uint8 = 0x00
)

// ItemChannelSetup modes. The dual A/D mode requires the X2 board option.
const (
	ChannelModeSingle     uint8 = 0x00
	ChannelModeDualMainAD uint8 = 0x04
	ChannelModeDualAD     uint8 = 0x06
)

// ItemRFFilter codes
const (
	FilterAuto   uint8 = 0x00
	FilterBypass uint8 = 0x0B
)

// ControlLayer is one control channel message: a set, get or get-range
// request or its response. The length byte counts the entire message
// including itself.
type ControlLayer struct {
	layers.BaseLayer
	Length uint8
	Type   ControlType
	Item   ControlItem
	Params []byte
}

var ControlLayerType = gopacket.RegisterLayerType(ControlLayerNum,
	gopacket.LayerTypeMetadata{Name: "ControlLayerType", Decoder: gopacket.DecodeFunc(DecodeControlLayer)})

func (cl *ControlLayer) LayerType() gopacket.LayerType {
	return ControlLayerType
}

// SerializeTo serializes the control message into bytes and writes the bytes
// to the SerializeBuffer. The length field is recomputed from the params.
func (cl *ControlLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if ControlHeaderSize+len(cl.Params) > ControlMaxMsgSize {
		return fmt.Errorf("Control message params too long: %d bytes", len(cl.Params))
	}
	bytes, err := b.PrependBytes(ControlHeaderSize + len(cl.Params))
	if err != nil {
		return err
	}
	cl.Length = uint8(ControlHeaderSize + len(cl.Params))
	bytes[0] = cl.Length
	bytes[1] = uint8(cl.Type)
	binary.LittleEndian.PutUint16(bytes[2:4], uint16(cl.Item))
	copy(bytes[ControlHeaderSize:], cl.Params)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a control message
func (cl *ControlLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < ControlHeaderSize {
		df.SetTruncated()
		return errors.New("Control message too short")
	}

	cl.Length = data[0]
	cl.Type = ControlType(data[1])
	cl.Item = ControlItem(binary.LittleEndian.Uint16(data[2:4]))

	if int(cl.Length) < ControlHeaderSize {
		return errors.New(fmt.Sprintf("Control message length field too small: %d", cl.Length))
	}
	if int(cl.Length) > len(data) {
		df.SetTruncated()
		return fmt.Errorf("Control message truncated: length field %d, have %d bytes", cl.Length, len(data))
	}

	cl.Params = data[ControlHeaderSize:cl.Length]
	cl.BaseLayer = layers.BaseLayer{
		Contents: data[0:ControlHeaderSize],
		Payload:  data[ControlHeaderSize:cl.Length],
	}
	return nil
}

func DecodeControlLayer(data []byte, p gopacket.PacketBuilder) error {
	cl := &ControlLayer{}
	err := cl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(cl)
	return nil
}
