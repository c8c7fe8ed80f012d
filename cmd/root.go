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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spectrumlab/go-netsdr/cmd/completion"
	"github.com/spectrumlab/go-netsdr/cmd/config"
	"github.com/spectrumlab/go-netsdr/cmd/discover"
	"github.com/spectrumlab/go-netsdr/cmd/probe"
	"github.com/spectrumlab/go-netsdr/cmd/receiver"
	"github.com/spectrumlab/go-netsdr/cmd/serve"
	"github.com/spectrumlab/go-netsdr/cmd/stream"
	pkgconfig "github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "go-netsdr",
		Short: "Tool to work with RFSPACE NetSDR receivers",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(discover.NewCommand())
	cmd.AddCommand(receiver.NewCommand())
	cmd.AddCommand(stream.NewCommand())
	cmd.AddCommand(probe.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
