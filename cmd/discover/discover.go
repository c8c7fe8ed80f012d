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

package discover

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/discover"
)

const (
	BroadcastOptionName = "broadcast"
	WindowOptionName    = "window"
	JSONOptionName      = "json"
)

// NewCommand runs a discovery pass directly, without the daemon. Units
// that answer are printed together with the connection string other SDR
// software expects.
func NewCommand() *cobra.Command {
	var broadcast string
	var window time.Duration
	var asJSON bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find NetSDR units on the local network",
		RunE: func(cmd *cobra.Command, args []string) error {
			if broadcast != "" {
				cfg.DiscoverConfig.Broadcast = broadcast
			}
			client := discover.NewClient(cfg.DiscoverConfig)
			if window != 0 {
				client.Window = window
			}
			units, err := client.Discover()
			if err != nil {
				return err
			}
			if asJSON {
				data, err := json.MarshalIndent(units, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			for _, unit := range units {
				fmt.Fprint(cmd.OutOrStdout(), unit.String())
			}
			for _, connString := range discover.ConnStrings(units) {
				fmt.Fprintln(cmd.OutOrStdout(), connString)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&broadcast, BroadcastOptionName, "", fmt.Sprintf("Broadcast address for discovery requests. E.g. %s", config.DefaultDiscoverBroadcast))
	cmd.Flags().DurationVar(&window, WindowOptionName, 0, "How long to wait for each reply. E.g. 100ms")
	cmd.Flags().BoolVar(&asJSON, JSONOptionName, false, "Print the decoded units as JSON")
	cmd.AddCommand(NewListCommand())

	return cmd
}
