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

package command

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/rx"
	"github.com/spectrumlab/go-netsdr/pkg/srv"
)

// StreamParams describes one direct capture run
type StreamParams struct {
	Freq     float64
	Rate     float64
	Out      string
	Duration time.Duration
}

// Stream connects to a unit directly, without the daemon, and captures
// its sample stream until the duration elapses or a signal arrives.
// An empty or "-" output path streams to stdout.
func Stream(rcfg *config.ReceiverConfig, params StreamParams) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if params.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Duration)
		defer cancel()
	}

	recv, err := rx.NewReceiver(ctx, rcfg, nil)
	if err != nil {
		return err
	}
	defer recv.Close()

	if params.Rate > 0 {
		if _, err := recv.SetSampleRate(params.Rate); err != nil {
			return err
		}
	}
	if params.Freq > 0 {
		if _, err := recv.SetCenterFreq(params.Freq, 0); err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if params.Out != "" && params.Out != "-" {
		writer, err := srv.NewWriter(params.Out)
		if err != nil {
			return err
		}
		defer writer.Flush()
		w = writer
	}

	if err := recv.Start(); err != nil {
		return err
	}
	defer recv.Stop()

	out := make([][]complex64, recv.Channels())
	for ch := range out {
		out[ch] = make([]complex64, srv.PumpSamples)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		recv.SetDataDeadline(time.Now().Add(srv.ReadTimeout))
		n, err := recv.ReadSamples(out)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if n > 0 {
			if _, err := w.Write(srv.EncodeSamples(out, n)); err != nil {
				return err
			}
		}
	}
}
