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
	BandwidthOptionName = "bandwidth"
)

func NewBandwidthCommand() *cobra.Command {
	var receiver string
	var ch int
	var bandwidth float64
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "bandwidth",
		Short: "Select the RF filter mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			applied, err := apiClient.SetBandwidth(receiver, bandwidth, ch)
			if err != nil {
				return err
			}
			if applied == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Filter: automatic")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filter: %.0f Hz\n", applied)
			return nil
		},
	}
	cmd.Flags().StringVar(&receiver, ReceiverOptionName, DefaultReceiver, "Receiver name")
	cmd.Flags().IntVar(&ch, ChanOptionName, 0, "RF channel")
	cmd.Flags().Float64Var(&bandwidth, BandwidthOptionName, 0, "Filter bandwidth in Hz, 0 selects the bandpass filter automatically")

	return cmd
}
