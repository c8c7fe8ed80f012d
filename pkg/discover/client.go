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
	"time"

	"github.com/google/gopacket"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/layers"
	"github.com/spectrumlab/go-netsdr/pkg/log"
)

// DefaultWindow is how long a pass waits for the next reply. Units answer
// a request within a few milliseconds, the window resets on every reply.
const DefaultWindow = 10 * time.Millisecond

// Client performs discovery passes: one request broadcast to the request
// port, replies collected on the reply port until the window runs out
type Client struct {
	*config.DiscoverConfig
	Window time.Duration
}

func NewClient(cfg *config.DiscoverConfig) *Client {
	return &Client{
		DiscoverConfig: cfg,
		Window:         DefaultWindow,
	}
}

func NewDefaultClient() *Client {
	return NewClient(config.NewDefaultConfig().DiscoverConfig)
}

// Discover runs one pass and returns the units that answered. Finding
// nothing is not an error, the pass simply times out empty.
func (c *Client) Discover() ([]*Unit, error) {
	// the reply socket doubles as the request source, it must exist
	// before the request goes out or early replies are lost
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: c.ReplyPort})
	if err != nil {
		return nil, fmt.Errorf("bind reply port %d: %w", c.ReplyPort, err)
	}
	defer conn.Close()

	dst, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", c.Broadcast, c.RequestPort))
	if err != nil {
		return nil, err
	}

	buf := gopacket.NewSerializeBuffer()
	req := &layers.DiscoveryLayer{Op: layers.DiscoveryOpRequest}
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, req); err != nil {
		return nil, err
	}
	if _, err := conn.WriteToUDP(buf.Bytes(), dst); err != nil {
		return nil, fmt.Errorf("send discovery request to %s: %w", dst, err)
	}

	var units []*Unit
	buffer := make([]byte, 2048)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(c.Window)); err != nil {
			return units, err
		}
		n, addr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				return units, nil
			}
			return units, err
		}
		unit, err := DecodeUnit(buffer[:n])
		if err != nil {
			log.Debug("Ignoring datagram from %s: %s", addr, err)
			continue
		}
		log.Debug("Discovered %s %s at %s:%d", unit.Name, unit.Serial, unit.IP, unit.Port)
		units = append(units, unit)
	}
}
