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

func NewListCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connected receivers and their run state",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			statuses, err := apiClient.Receivers()
			if err != nil {
				return err
			}
			for _, status := range statuses {
				state := "stopped"
				if status.Running {
					state = "running"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s channels=%d rate=%.0f %s\n",
					status.Name, status.Addr, status.Channels, status.SampleRate, state)
			}
			return nil
		},
	}
	return cmd
}
