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
	RateOptionName = "rate"
)

// NewRateCommand changes the sample rate, or reports it when no rate is
// given. The daemon refuses rate changes while the receiver streams.
func NewRateCommand() *cobra.Command {
	var receiver string
	var rate float64
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Set or read the sample rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if cmd.Flags().Changed(RateOptionName) {
				applied, err := apiClient.SetRate(receiver, rate)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sample rate: %.0f Hz\n", applied)
				return nil
			}
			applied, err := apiClient.Rate(receiver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample rate: %.0f Hz\n", applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&receiver, ReceiverOptionName, DefaultReceiver, "Receiver name")
	cmd.Flags().Float64Var(&rate, RateOptionName, 0, "Sample rate in Hz. E.g. 500e3")

	return cmd
}
