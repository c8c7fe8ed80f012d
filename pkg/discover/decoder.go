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
	"fmt"
	"net"

	"github.com/google/gopacket"
	"sigs.k8s.io/yaml"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
	"github.com/spectrumlab/go-netsdr/pkg/log"
)

// DefaultConnString names the unit every setup is assumed to have when a
// discovery pass finds nothing
const DefaultConnString = "netsdr=127.0.0.1:50000,label='RFSPACE NetSDR'"

// Unit is one receiver that answered a discovery request
type Unit struct {
	Name   string `json:"Name,omitempty"`
	Serial string `json:"Serial,omitempty"`
	IP     net.IP `json:"IP,omitempty"`
	Port   uint16 `json:"Port,omitempty"`
	Custom uint8  `json:"Custom,omitempty"`
}

func (u *Unit) String() string {
	result, err := yaml.Marshal(u)
	if err != nil {
		log.Info("Error occured while marshaling unit description, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// ConnString renders the unit as a connection string
func (u *Unit) ConnString() string {
	return fmt.Sprintf("netsdr=%s:%d,label='RFSPACE %s SN %s'", u.IP, u.Port, u.Name, u.Serial)
}

// ConnStrings renders a discovery result as connection strings, falling
// back to the default unit when the pass found nothing
func ConnStrings(units []*Unit) []string {
	if len(units) == 0 {
		return []string{DefaultConnString}
	}
	strs := make([]string, len(units))
	for i, u := range units {
		strs[i] = u.ConnString()
	}
	return strs
}

// DecodeUnit parses one reply datagram. Datagrams that do not carry a
// discovery response are rejected, the caller decides whether to keep
// listening.
func DecodeUnit(data []byte) (*Unit, error) {
	packet := gopacket.NewPacket(data, layers.DiscoveryLayerType, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, errLayer.Error()
	}
	layer := packet.Layer(layers.DiscoveryLayerType)
	if layer == nil {
		return nil, ErrNotResponse{}
	}
	dl := layer.(*layers.DiscoveryLayer)
	if dl.Op != layers.DiscoveryOpResponse {
		return nil, ErrNotResponse{Op: dl.Op}
	}
	return &Unit{
		Name:   dl.Name,
		Serial: dl.Serial,
		IP:     dl.IP,
		Port:   dl.Port,
		Custom: dl.Custom,
	}, nil
}
