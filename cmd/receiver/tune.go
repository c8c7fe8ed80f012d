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
	FreqOptionName = "freq"
)

// NewTuneCommand tunes an RF channel, or reports its frequency when no
// target is given. The unit may round the request, the printed value is
// what it reports back.
func NewTuneCommand() *cobra.Command {
	var receiver string
	var ch int
	var freq float64
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Tune a receiver or read its frequency",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if cmd.Flags().Changed(FreqOptionName) {
				applied, err := apiClient.SetFrequency(receiver, freq, ch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Frequency: %.0f Hz\n", applied)
				return nil
			}
			applied, err := apiClient.Frequency(receiver, ch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Frequency: %.0f Hz\n", applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&receiver, ReceiverOptionName, DefaultReceiver, "Receiver name")
	cmd.Flags().IntVar(&ch, ChanOptionName, 0, "RF channel")
	cmd.Flags().Float64Var(&freq, FreqOptionName, 0, "Center frequency in Hz. E.g. 14.2e6")

	return cmd
}
