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

package rx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
	"github.com/spectrumlab/go-netsdr/pkg/log"
)

// Info is the identification of a unit, collected best-effort when the
// session is constructed. Fields the unit did not answer stay zero.
type Info struct {
	Name            string  `json:"Name,omitempty"`
	Serial          string  `json:"Serial,omitempty"`
	Options         Options `json:"Options,omitempty"`
	BootVersion     uint16  `json:"BootVersion,omitempty"`
	FirmwareVersion uint16  `json:"FirmwareVersion,omitempty"`
	HardwareVersion uint16  `json:"HardwareVersion,omitempty"`
	FPGAConfig      uint8   `json:"FPGAConfig,omitempty"`
	FPGAVersion     uint8   `json:"FPGAVersion,omitempty"`
}

func (i *Info) String() string {
	result, err := yaml.Marshal(i)
	if err != nil {
		log.Info("Error occured while marshaling receiver info, %s", err)
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// identify queries name, serial, options and versions and emits one
// identification line. Every query is best effort, a unit that does not
// answer an item simply contributes nothing to the line.
func (r *Receiver) identify(label string) {
	using := []string{"Using"}

	if resp, err := r.get(layers.ControlTypeGet, layers.ItemName, nil); err == nil {
		r.info.Name = cstring(resp.Params)
	}
	if resp, err := r.get(layers.ControlTypeGet, layers.ItemSerialNumber, nil); err == nil {
		r.info.Serial = cstring(resp.Params)
	}
	if label != "" {
		using = append(using, label)
	} else {
		if r.info.Name != "" {
			using = append(using, r.info.Name)
		}
		if r.info.Serial != "" {
			using = append(using, r.info.Serial)
		}
	}

	if resp, err := r.get(layers.ControlTypeGet, layers.ItemOptions, nil); err == nil && len(resp.Params) >= 1 {
		r.info.Options = Options(resp.Params[0])
		if r.info.Options != 0 {
			using = append(using, fmt.Sprintf("option %s", r.info.Options))
		}
	}

	if v, err := r.version(layers.VersionBoot); err == nil {
		r.info.BootVersion = v
		using = append(using, fmt.Sprintf("BOOT %d", v))
	}
	if v, err := r.version(layers.VersionFirmware); err == nil {
		r.info.FirmwareVersion = v
		using = append(using, fmt.Sprintf("FW %d", v))
	}
	if v, err := r.version(layers.VersionHardware); err == nil {
		r.info.HardwareVersion = v
		using = append(using, fmt.Sprintf("HW %d", v))
	}
	if resp, err := r.get(layers.ControlTypeGet, layers.ItemVersion, []byte{layers.VersionFPGA}); err == nil && len(resp.Params) >= 3 {
		r.info.FPGAConfig = resp.Params[1]
		r.info.FPGAVersion = resp.Params[2]
		using = append(using, fmt.Sprintf("FPGA %d/%d", r.info.FPGAConfig, r.info.FPGAVersion))
	}

	r.diag("%s", strings.Join(using, " "))
}

// version reads one sub-indexed entry of the version item
func (r *Receiver) version(sub uint8) (uint16, error) {
	resp, err := r.get(layers.ControlTypeGet, layers.ItemVersion, []byte{sub})
	if err != nil {
		return 0, err
	}
	if len(resp.Params) < 3 {
		return 0, ErrShortParams{Item: layers.ItemVersion, Got: len(resp.Params)}
	}
	return binary.LittleEndian.Uint16(resp.Params[1:3]), nil
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
