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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spectrumlab/go-netsdr/pkg/command"
	"github.com/spectrumlab/go-netsdr/pkg/config"
)

// NewListCommand lists the units the daemon has recorded over all its
// discovery passes
func NewListCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units recorded by the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			units, err := apiClient.Devices()
			if err != nil {
				return err
			}
			for _, unit := range units {
				fmt.Fprint(cmd.OutOrStdout(), unit.String())
			}
			return nil
		},
	}
	return cmd
}
