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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spectrumlab/go-netsdr/pkg/command"
	"github.com/spectrumlab/go-netsdr/pkg/config"
)

const (
	DirOptionName        = "dir"
	FilePrefixOptionName = "file-prefix"
)

// NewCaptureCommand controls the capture file of a receiver. Starting a
// capture also starts streaming, stopping it closes the file and stops
// the receiver.
func NewCaptureCommand() *cobra.Command {
	var receiver, dir, filePrefix string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:       "capture start|stop",
		Short:     "Start/stop capturing samples to a file",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"start", "stop"},
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			switch args[0] {
			case "start":
				file, err := apiClient.Persist(receiver, dir, filePrefix)
				if err != nil {
					return err
				}
				if err := apiClient.Start(receiver); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Capturing to %s\n", file)
				return nil
			case "stop":
				err := apiClient.Stop(receiver)
				if err != nil {
					return err
				}
				return apiClient.Flush(receiver)
			default:
				return errors.New("Wrong capture command. Must be one of start/stop")
			}
		},
	}
	cmd.Flags().StringVar(&receiver, ReceiverOptionName, DefaultReceiver, "Receiver name")
	cmd.Flags().StringVar(&dir, DirOptionName, "", "Directory path where to persist data")
	cmd.Flags().StringVar(&filePrefix, FilePrefixOptionName, "", "File name prefix")

	return cmd
}
