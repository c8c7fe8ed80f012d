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

package probe

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spectrumlab/go-netsdr/pkg/command"
	"github.com/spectrumlab/go-netsdr/pkg/config"
)

const (
	HostOptionName = "host"
	PortOptionName = "port"
)

// NewCommand interrogates a unit directly, without the daemon. An empty
// host runs a discovery pass and adopts the first unit found.
func NewCommand() *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Connect to a unit and show what it reports about itself",
		RunE: func(cmd *cobra.Command, args []string) error {
			rcfg := &config.ReceiverConfig{
				Name: "probe",
				Host: host,
				Port: port,
			}
			return command.Probe(rcfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&host, HostOptionName, "", fmt.Sprintf("Unit address. E.g. %s", config.DefaultControlHost))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Control port. E.g. %d", config.DefaultControlPort))

	return cmd
}
