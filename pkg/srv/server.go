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

package srv

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/discover"
	"github.com/spectrumlab/go-netsdr/pkg/log"
	"github.com/spectrumlab/go-netsdr/pkg/rx"
)

const (
	WriterChSize = 100
	// ReadTimeout bounds one receive so the pump notices Stop and shutdown
	ReadTimeout = time.Second
	// IdlePoll is how often an idle pump or writer looks for work
	IdlePoll = 10 * time.Millisecond
	// PumpSamples is the per-read sample capacity, comfortably above what
	// one datagram can carry
	PumpSamples = 1024
)

// Session is one connected receiver together with its capture plumbing
type Session struct {
	*rx.Receiver
	Name          string
	writerCh      chan []byte
	writerStateCh chan string
}

// Server owns the receiver sessions and the REST API
type Server struct {
	context.Context
	*config.Config
	state    *State
	api      *ApiServer
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	state, err := NewState(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &Server{
		Context:  ctx,
		Config:   cfg,
		state:    state,
		sessions: make(map[string]*Session),
	}
	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		state.Close()
		return nil, err
	}
	s.api = apiServer
	return s, nil
}

// Run connects the configured receivers and serves the API until the
// context ends. A receiver that can not be reached is logged and skipped,
// the daemon still serves the others.
func (s *Server) Run() error {
	defer s.state.Close()

	for _, rcfg := range s.Config.Receivers {
		if err := s.connect(rcfg); err != nil {
			log.Error("Can not connect to receiver %s: %s", rcfg.Name, err)
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.api.Run()
	}()

	select {
	case <-s.Context.Done():
		s.closeAll()
		return s.Context.Err()
	case err := <-errChan:
		s.closeAll()
		return err
	}
}

func (s *Server) connect(rcfg *config.ReceiverConfig) error {
	recv, err := rx.NewReceiver(s.Context, rcfg, nil)
	if err != nil {
		return err
	}
	sess := &Session{
		Receiver:      recv,
		Name:          rcfg.Name,
		writerCh:      make(chan []byte, WriterChSize),
		writerStateCh: make(chan string),
	}

	if snapshot, err := s.state.GetSettings(rcfg.Name); err == nil && snapshot != nil {
		s.restore(sess, snapshot)
	}

	s.mu.Lock()
	s.sessions[rcfg.Name] = sess
	s.mu.Unlock()

	go sess.pump(s.Context)
	go sess.runWriter(s.Context)
	return nil
}

// restore reapplies the recorded tuning snapshot of a receiver
func (s *Server) restore(sess *Session, snapshot *Settings) {
	log.Info("Restoring settings: receiver: %s", sess.Name)
	if snapshot.SampleRate > 0 {
		if _, err := sess.SetSampleRate(snapshot.SampleRate); err != nil {
			log.Error("Error while restoring sample rate: receiver: %s error: %s", sess.Name, err)
		}
	}
	if snapshot.Frequency > 0 {
		if _, err := sess.SetCenterFreq(snapshot.Frequency, 0); err != nil {
			log.Error("Error while restoring frequency: receiver: %s error: %s", sess.Name, err)
		}
	}
	if _, err := sess.SetGain(snapshot.Gain, 0); err != nil {
		log.Error("Error while restoring gain: receiver: %s error: %s", sess.Name, err)
	}
	sess.SetBandwidth(snapshot.Bandwidth, 0)
}

// snapshot records the current channel 0 tuning of a session
func (s *Server) snapshot(sess *Session) {
	settings := &Settings{
		SampleRate: sess.GetSampleRate(),
		Bandwidth:  sess.GetBandwidth(0),
	}
	if freq, err := sess.GetCenterFreq(0); err == nil {
		settings.Frequency = freq
	}
	if gain, err := sess.GetGain(0); err == nil {
		settings.Gain = gain
	}
	if err := s.state.SetSettings(sess.Name, settings); err != nil {
		log.Error("Error while recording settings: receiver: %s error: %s", sess.Name, err)
	}
}

// Session looks up a connected receiver by name
func (s *Server) Session(name string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[name]
	if !ok {
		return nil, ErrReceiverNotConnected{Name: name}
	}
	return sess, nil
}

// Sessions returns the connected receivers sorted by name
func (s *Server) Sessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Name < sessions[j].Name })
	return sessions
}

// Discover runs one discovery pass and records every unit that answered
func (s *Server) Discover() ([]*discover.Unit, error) {
	units, err := discover.NewClient(s.Config.DiscoverConfig).Discover()
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if err := s.state.SetUnit(u); err != nil {
			return units, err
		}
	}
	return units, nil
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.Running() {
			if err := sess.Stop(); err != nil {
				log.Error("Error while stopping receiver %s: %s", sess.Name, err)
			}
		}
		sess.Close()
	}
}

// pump drains the data socket into the capture channel while the receiver
// runs. Receives are bounded so Stop and shutdown are noticed quickly.
func (sess *Session) pump(ctx context.Context) {
	out := make([][]complex64, sess.Channels())
	for ch := range out {
		out[ch] = make([]complex64, PumpSamples)
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !sess.Running() {
			time.Sleep(IdlePoll)
			continue
		}
		sess.SetDataDeadline(time.Now().Add(ReadTimeout))
		n, err := sess.ReadSamples(out)
		if err != nil {
			if err == io.EOF {
				continue
			}
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Error("Receive failed on %s: %s", sess.Name, err)
			return
		}
		if n > 0 {
			sess.writerCh <- EncodeSamples(out, n)
		}
	}
}

// runWriter owns the capture file of a session. A filename on the state
// channel rotates the output, the empty filename drops back to discarding.
func (sess *Session) runWriter(ctx context.Context) {
	currentFilename := ""
	var writer io.Writer = io.Discard
	for {
		select {
		case filename := <-sess.writerStateCh:
			if currentFilename != "" {
				w := writer.(*Writer)
				w.Flush()
			}
			if filename == "" {
				writer = io.Discard
			} else {
				w, err := NewWriter(filename)
				if err != nil {
					log.Error("Error while creating writer: %s", err)
					writer = io.Discard
					currentFilename = ""
					continue
				}
				writer = w
			}
			currentFilename = filename
		default:
		}
		select {
		case <-ctx.Done():
			if currentFilename != "" {
				writer.(*Writer).Flush()
			}
			return
		case bytes := <-sess.writerCh:
			if _, err := writer.Write(bytes); err != nil {
				log.Error("Error while writing to file: %s", err)
			}
		default:
			time.Sleep(IdlePoll)
		}
	}
}

// Persist rotates the capture of this session onto a fresh file and
// returns its path
func (sess *Session) Persist(dir, prefix string) string {
	if prefix == "" {
		prefix = sess.Name
	}
	filename := IQFilename(dir, prefix, time.Now())
	sess.writerStateCh <- filename
	return filename
}

// FlushCapture closes the capture file of this session, samples are
// discarded again until the next Persist
func (sess *Session) FlushCapture() {
	sess.writerStateCh <- ""
}

// EncodeSamples packs decoded samples as interleaved little endian
// complex64 values, channel order within each frame. This is the on-disk
// capture format.
func EncodeSamples(out [][]complex64, n int) []byte {
	nchan := len(out)
	buf := make([]byte, 8*n*nchan)
	off := 0
	for i := 0; i < n; i++ {
		for ch := 0; ch < nchan; ch++ {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(real(out[ch][i])))
			binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(imag(out[ch][i])))
			off += 8
		}
	}
	return buf
}
