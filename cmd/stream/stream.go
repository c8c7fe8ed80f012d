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

package stream

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spectrumlab/go-netsdr/pkg/command"
	"github.com/spectrumlab/go-netsdr/pkg/config"
)

const (
	HostOptionName     = "host"
	PortOptionName     = "port"
	ChannelsOptionName = "channels"
	FreqOptionName     = "freq"
	RateOptionName     = "rate"
	OutOptionName      = "out"
	DurationOptionName = "duration"
)

// NewCommand streams samples from a unit directly, without the daemon.
// An empty host runs a discovery pass and adopts the first unit found.
func NewCommand() *cobra.Command {
	var host, out string
	var port, channels int
	var freq, rate float64
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Stream samples from a unit directly to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			rcfg := &config.ReceiverConfig{
				Name:     "stream",
				Host:     host,
				Port:     port,
				Channels: channels,
			}
			return command.Stream(rcfg, command.StreamParams{
				Freq:     freq,
				Rate:     rate,
				Out:      out,
				Duration: duration,
			})
		},
	}
	cmd.Flags().StringVar(&host, HostOptionName, "", fmt.Sprintf("Unit address. E.g. %s", config.DefaultControlHost))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Control port. E.g. %d", config.DefaultControlPort))
	cmd.Flags().IntVar(&channels, ChannelsOptionName, 1, "Number of RF channels, 1 or 2")
	cmd.Flags().Float64Var(&freq, FreqOptionName, 0, "Center frequency in Hz. E.g. 14.2e6")
	cmd.Flags().Float64Var(&rate, RateOptionName, 0, "Sample rate in Hz. E.g. 500e3")
	cmd.Flags().StringVar(&out, OutOptionName, "-", "Output file, - streams to stdout")
	cmd.Flags().DurationVar(&duration, DurationOptionName, 0, "How long to stream, 0 streams until interrupted")

	return cmd
}
