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

package command

import (
	"context"
	"fmt"
	"io"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/rx"
)

// Probe connects to a unit directly, prints what it reports about itself
// and disconnects
func Probe(rcfg *config.ReceiverConfig, w io.Writer) error {
	recv, err := rx.NewReceiver(context.Background(), rcfg, func(format string, v ...interface{}) {
		fmt.Fprintf(w, format+"\n", v...)
	})
	if err != nil {
		return err
	}
	defer recv.Close()

	info := recv.Info()
	fmt.Fprint(w, info.String())

	ranges, err := recv.GetFreqRanges(0)
	if err != nil {
		return err
	}
	for _, fr := range ranges {
		fmt.Fprintf(w, "Range: %.0f - %.0f Hz (VCO %.0f Hz)\n", fr.Min, fr.Max, fr.VCO)
	}

	gainRange := recv.GainRange()
	fmt.Fprintf(w, "Gain: %s %.0f to %.0f dB in steps of %.0f dB\n",
		recv.GainName(), gainRange.Min, gainRange.Max, gainRange.Step)

	fmt.Fprint(w, "Rates:")
	for _, rate := range recv.SampleRates() {
		fmt.Fprintf(w, " %.0f", rate)
	}
	fmt.Fprintln(w)
	return nil
}
