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

package receiver

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spectrumlab/go-netsdr/pkg/command"
	"github.com/spectrumlab/go-netsdr/pkg/config"
)

const (
	GainOptionName = "gain"
)

// NewGainCommand sets the attenuator, or reports the applied gain when no
// value is given. The attenuator has 10 dB steps, requests in between
// round toward more attenuation.
func NewGainCommand() *cobra.Command {
	var receiver string
	var ch int
	var gain float64
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "gain",
		Short: "Set or read the RF gain",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if cmd.Flags().Changed(GainOptionName) {
				applied, err := apiClient.SetGain(receiver, gain, ch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Gain: %.0f dB\n", applied)
				return nil
			}
			applied, err := apiClient.Gain(receiver, ch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Gain: %.0f dB\n", applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&receiver, ReceiverOptionName, DefaultReceiver, "Receiver name")
	cmd.Flags().IntVar(&ch, ChanOptionName, 0, "RF channel")
	cmd.Flags().Float64Var(&gain, GainOptionName, 0, "Gain in dB, between -30 and 0")

	return cmd
}
