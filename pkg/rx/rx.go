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
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/control"
	"github.com/spectrumlab/go-netsdr/pkg/discover"
	"github.com/spectrumlab/go-netsdr/pkg/layers"
	"github.com/spectrumlab/go-netsdr/pkg/log"
)

const (
	// DefaultSampleRate applied at session construction
	DefaultSampleRate = 500e3
)

// DiagSink receives best-effort human readable observations: device
// identification, packet loss notices, rate mismatch notices. It must not
// block for long, the streaming path calls it inline.
type DiagSink func(format string, v ...interface{})

// Receiver is one session with a unit: the control connection, the data
// socket and the cached channel configuration. All control transactions go
// through one mutex, the protocol is half duplex and a second command
// before the first response is undefined.
type Receiver struct {
	mu   sync.Mutex
	ctrl *control.Client
	data *net.UDPConn

	nchan   int
	running bool
	seq     uint16

	sampleRate float64
	bandwidth  float64

	info Info
	diag DiagSink

	dataBuf []byte
}

// NewReceiver connects to a unit and brings it to a known configuration:
// channel mode set, default sample rate, automatic filter selection. An
// empty host triggers a discovery pass and adopts the first unit found,
// falling back to the default host and port.
func NewReceiver(ctx context.Context, rcfg *config.ReceiverConfig, diag DiagSink) (*Receiver, error) {
	nchan := rcfg.Channels
	if nchan == 0 {
		nchan = 1
	}
	if nchan < 1 || nchan > 2 {
		return nil, ErrChannelCount{Count: nchan}
	}
	if diag == nil {
		diag = func(format string, v ...interface{}) {
			log.Info(format, v...)
		}
	}

	host := rcfg.Host
	port := rcfg.Port
	if port == 0 {
		port = config.DefaultControlPort
	}
	if host == "" {
		units, err := discover.NewDefaultClient().Discover()
		if err == nil && len(units) > 0 {
			host = units[0].IP.String()
			port = int(units[0].Port)
		} else {
			host = config.DefaultControlHost
		}
	}

	ctrl, err := control.Dial(ctx, fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("connect to %s:%d: %w", host, port, err)
	}

	dataPort := rcfg.DataPort
	if dataPort == 0 {
		dataPort = config.DefaultControlPort
	}
	data, err := net.ListenUDP("udp", &net.UDPAddr{Port: dataPort})
	if err != nil {
		ctrl.Close()
		return nil, fmt.Errorf("bind data port %d: %w", dataPort, err)
	}

	r := &Receiver{
		ctrl:    ctrl,
		data:    data,
		nchan:   nchan,
		diag:    diag,
		dataBuf: make([]byte, control.ResponseBufSize),
	}

	r.identify(rcfg.Label)

	// Channel mode is best effort, like the identification queries.
	// The dual A/D mode needs the X2 board.
	mode := layers.ChannelModeSingle
	if nchan == 2 {
		if r.info.Options.X2() {
			mode = layers.ChannelModeDualAD
		} else {
			mode = layers.ChannelModeDualMainAD
		}
	}
	if err := r.set(layers.ItemChannelSetup, []byte{mode}); err != nil {
		log.Debug("Channel setup not acknowledged: %s", err)
	}

	if _, err := r.SetSampleRate(DefaultSampleRate); err != nil {
		r.Close()
		return nil, err
	}
	r.SetBandwidth(0, 0)

	return r, nil
}

// Addr returns the control endpoint of the unit
func (r *Receiver) Addr() string {
	return r.ctrl.Addr()
}

// Channels returns the configured channel count, which is also the
// output arity of ReadSamples
func (r *Receiver) Channels() int {
	return r.nchan
}

// Info returns the identification collected at construction
func (r *Receiver) Info() Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

func (r *Receiver) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start resets the sequence tracker and puts the receiver into the
// run state, streaming 16-bit contiguous complex data
func (r *Receiver) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq = 0
	r.running = true

	cl := &layers.ControlLayer{
		Type:   layers.ControlTypeSet,
		Item:   layers.ItemReceiverState,
		Params: []byte{layers.StateDataComplex, layers.StateRun, layers.StateContiguous, 0x00},
	}
	return r.ctrl.Set(cl)
}

// Stop puts the receiver into the idle state. The session is left
// logically stopped even when the unit does not acknowledge.
func (r *Receiver) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false

	cl := &layers.ControlLayer{
		Type:   layers.ControlTypeSet,
		Item:   layers.ItemReceiverState,
		Params: []byte{0x00, layers.StateIdle, 0x00, 0x00},
	}
	return r.ctrl.Set(cl)
}

func (r *Receiver) Close() error {
	err := r.ctrl.Close()
	if derr := r.data.Close(); err == nil {
		err = derr
	}
	return err
}

// set performs a fire-and-forget configuration transaction
func (r *Receiver) set(item layers.ControlItem, params []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.Set(&layers.ControlLayer{Type: layers.ControlTypeSet, Item: item, Params: params})
}

// get performs a query transaction and returns the decoded response
func (r *Receiver) get(typ layers.ControlType, item layers.ControlItem, params []byte) (*layers.ControlLayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.Do(&layers.ControlLayer{Type: typ, Item: item, Params: params})
}

// channelSelector maps an RF channel index to the selector byte used by
// per-channel control items. Channel 1 exists only on two-channel sessions.
func (r *Receiver) channelSelector(ch int) (byte, error) {
	switch ch {
	case 0:
		return 0, nil
	case 1:
		if r.nchan < 2 {
			return 0, ErrChannel{Chan: ch}
		}
		return 2, nil
	default:
		return 0, ErrChannel{Chan: ch}
	}
}
