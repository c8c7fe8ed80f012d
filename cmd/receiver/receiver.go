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
	"github.com/spf13/cobra"
)

const (
	ReceiverOptionName = "receiver"
	ChanOptionName     = "chan"

	// DefaultReceiver is the receiver name the default config carries
	DefaultReceiver = "main"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receiver",
		Short: "Control a receiver through the daemon",
	}
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewStartCommand())
	cmd.AddCommand(NewStopCommand())
	cmd.AddCommand(NewTuneCommand())
	cmd.AddCommand(NewRateCommand())
	cmd.AddCommand(NewRatesCommand())
	cmd.AddCommand(NewGainCommand())
	cmd.AddCommand(NewBandwidthCommand())
	cmd.AddCommand(NewInfoCommand())
	cmd.AddCommand(NewCaptureCommand())
	return cmd
}
