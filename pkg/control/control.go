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

package control

import (
	"context"
	"errors"
	"net"

	"github.com/google/gopacket"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
)

const (
	// ResponseBufSize is the size of the receive buffer. No documented
	// control response comes close to this.
	ResponseBufSize = 2048
)

// Client is a synchronous control channel client. The protocol is strictly
// half-duplex, one command then one response, so the client keeps a single
// receive buffer and no reader goroutine.
type Client struct {
	addr string
	conn net.Conn
	buf  []byte
}

// Dial connects to the control port of a unit
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection
func NewClient(conn net.Conn) *Client {
	return &Client{
		addr: conn.RemoteAddr().String(),
		conn: conn,
		buf:  make([]byte, ResponseBufSize),
	}
}

func (c *Client) Addr() string {
	return c.addr
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Transact writes the command in one send and performs exactly one receive.
// It trusts that one receive yields one complete response, which holds for
// this protocol's short messages but is not a general framing guarantee.
func (c *Client) Transact(cmd []byte) ([]byte, error) {
	if _, err := c.conn.Write(cmd); err != nil {
		return nil, err
	}
	n, err := c.conn.Read(c.buf)
	if err != nil {
		return nil, err
	}
	resp := make([]byte, n)
	copy(resp, c.buf[:n])
	return resp, nil
}

// TransactExpectLen performs one transaction and succeeds iff the response
// length equals the command length. Configuration commands are acknowledged
// by echoing the command back, so a length match means the unit accepted it.
func (c *Client) TransactExpectLen(cmd []byte) error {
	resp, err := c.Transact(cmd)
	if err != nil {
		return err
	}
	if len(resp) != len(cmd) {
		return ErrResponseLen{Want: len(cmd), Got: len(resp)}
	}
	return nil
}

// Set serializes a control message, performs one transaction and checks
// that the unit echoed a response of the command's length
func (c *Client) Set(cl *layers.ControlLayer) error {
	cmd, err := serialize(cl)
	if err != nil {
		return err
	}
	return c.TransactExpectLen(cmd)
}

// Do serializes a control message, performs one transaction and decodes
// the response as a control message
func (c *Client) Do(cl *layers.ControlLayer) (*layers.ControlLayer, error) {
	cmd, err := serialize(cl)
	if err != nil {
		return nil, err
	}
	resp, err := c.Transact(cmd)
	if err != nil {
		return nil, err
	}
	packet := gopacket.NewPacket(resp, layers.ControlLayerType, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, errLayer.Error()
	}
	layer := packet.Layer(layers.ControlLayerType)
	if layer == nil {
		return nil, errors.New("No control message in response")
	}
	return layer.(*layers.ControlLayer), nil
}

func serialize(cl *layers.ControlLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}
	if err := gopacket.SerializeLayers(buf, opts, cl); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
