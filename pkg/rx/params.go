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
	"encoding/binary"
	"math"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
	"github.com/spectrumlab/go-netsdr/pkg/log"
)

const (
	// ReferenceClock is the A/D clock the sample rates derive from
	ReferenceClock = 80e6
	// BandwidthBypass selects the antialiasing-only filter path
	BandwidthBypass = 34e6
)

// SampleRates enumerates the rates the hardware can produce for the given
// channel count: integral divisions of the reference clock up to a per
// channel ceiling, in ascending order.
func SampleRates(nchan int) []float64 {
	var rates []float64
	for i := 625; i >= 10; i-- {
		rate := ReferenceClock / (4.0 * float64(i))
		if rate > 2e6/float64(nchan) {
			break
		}
		if math.Floor(rate) == rate {
			rates = append(rates, rate)
		}
	}
	return rates
}

// SampleRates enumerates the rates available at the session's channel count
func (r *Receiver) SampleRates() []float64 {
	return SampleRates(r.nchan)
}

// SetSampleRate requests a sample rate and returns the rate the unit
// actually applied, read back from the echoed response. Rate changes are
// refused while running, the current rate is returned unchanged.
func (r *Receiver) SetSampleRate(rate float64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.diag("Changing the sample rate while streaming is not supported.")
		return r.sampleRate, nil
	}

	params := make([]byte, 5)
	binary.LittleEndian.PutUint32(params[1:5], uint32(rate))
	resp, err := r.ctrl.Do(&layers.ControlLayer{
		Type:   layers.ControlTypeSet,
		Item:   layers.ItemSampleRate,
		Params: params,
	})
	if err != nil {
		return 0, err
	}
	if len(resp.Params) < 5 {
		return 0, ErrShortParams{Item: layers.ItemSampleRate, Got: len(resp.Params)}
	}

	effective := binary.LittleEndian.Uint32(resp.Params[len(resp.Params)-4:])
	r.sampleRate = float64(effective)
	if rate != r.sampleRate {
		r.diag("Current NetSDR sample rate is %d", effective)
	}
	return r.sampleRate, nil
}

// GetSampleRate returns the cached rate, it never queries the unit
func (r *Receiver) GetSampleRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sampleRate
}

// FreqRange is one tuning range reported by the unit
type FreqRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	VCO float64 `json:"vco,omitempty"`
}

// GetFreqRanges queries the tuning ranges of an RF channel. A unit that
// reports none gets the documented 0 to 40 MHz default.
func (r *Receiver) GetFreqRanges(ch int) ([]FreqRange, error) {
	sel, err := r.channelSelector(ch)
	if err != nil {
		return nil, err
	}

	var ranges []FreqRange
	resp, err := r.get(layers.ControlTypeGetRange, layers.ItemFrequency, []byte{sel})
	if err == nil && len(resp.Params) >= 2 {
		count := int(resp.Params[1])
		for i := 0; i < count; i++ {
			// 15 bytes per entry: min, max and vco as 5-byte words,
			// of which the low 4 bytes matter
			base := 2 + i*15
			if base+15 > len(resp.Params) {
				break
			}
			ranges = append(ranges, FreqRange{
				Min: float64(binary.LittleEndian.Uint32(resp.Params[base : base+4])),
				Max: float64(binary.LittleEndian.Uint32(resp.Params[base+5 : base+9])),
				VCO: float64(binary.LittleEndian.Uint32(resp.Params[base+10 : base+14])),
			})
		}
	}

	if len(ranges) == 0 {
		ranges = append(ranges, FreqRange{Min: 0, Max: 40e6})
	}
	return ranges, nil
}

// SetCenterFreq tunes an RF channel and re-queries the applied frequency.
// The unit may clamp or round, the returned value is what it reports back.
func (r *Receiver) SetCenterFreq(freq float64, ch int) (float64, error) {
	sel, err := r.channelSelector(ch)
	if err != nil {
		return 0, err
	}

	// 5-byte frequency field, the top byte stays zero
	params := make([]byte, 6)
	params[0] = sel
	binary.LittleEndian.PutUint32(params[1:5], uint32(freq))
	if err := r.set(layers.ItemFrequency, params); err != nil {
		log.Debug("Tune not acknowledged: %s", err)
	}

	return r.GetCenterFreq(ch)
}

// GetCenterFreq queries the applied center frequency of an RF channel.
// There is no sane fallback value, a failed transaction is an error.
func (r *Receiver) GetCenterFreq(ch int) (float64, error) {
	sel, err := r.channelSelector(ch)
	if err != nil {
		return 0, err
	}
	resp, err := r.get(layers.ControlTypeGet, layers.ItemFrequency, []byte{sel})
	if err != nil {
		return 0, err
	}
	if len(resp.Params) < 6 {
		return 0, ErrShortParams{Item: layers.ItemFrequency, Got: len(resp.Params)}
	}
	freq := binary.LittleEndian.Uint32(resp.Params[len(resp.Params)-5 : len(resp.Params)-1])
	return float64(freq), nil
}

// AttenuationCode maps a requested gain to the stepped attenuator setting.
// The attenuator has four positions, values between steps round toward
// more attenuation so the front end is never driven harder than asked.
func AttenuationCode(gain float64) uint8 {
	switch {
	case gain < -20:
		return 0xE2
	case gain < -10:
		return 0xEC
	case gain < 0:
		return 0xF6
	default:
		return 0x00
	}
}

// GainRange describes the attenuator: -30 to 0 dB in 10 dB steps
type GainRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (r *Receiver) GainRange() GainRange {
	return GainRange{Min: -30, Max: 0, Step: 10}
}

// GainName returns the name of the sole gain stage
func (r *Receiver) GainName() string {
	return "ATT"
}

// SetGain applies the nearest attenuator step and returns the gain the
// unit reports back
func (r *Receiver) SetGain(gain float64, ch int) (float64, error) {
	sel, err := r.channelSelector(ch)
	if err != nil {
		return 0, err
	}
	if err := r.set(layers.ItemRFGain, []byte{sel, AttenuationCode(gain)}); err != nil {
		log.Debug("Gain not acknowledged: %s", err)
	}
	return r.GetGain(ch)
}

// GetGain queries the applied attenuation of an RF channel, in dB.
// Like the frequency getter it has no fallback and fails hard.
func (r *Receiver) GetGain(ch int) (float64, error) {
	sel, err := r.channelSelector(ch)
	if err != nil {
		return 0, err
	}
	resp, err := r.get(layers.ControlTypeGet, layers.ItemRFGain, []byte{sel})
	if err != nil {
		return 0, err
	}
	if len(resp.Params) < 2 {
		return 0, ErrShortParams{Item: layers.ItemRFGain, Got: len(resp.Params)}
	}
	return float64(int8(resp.Params[len(resp.Params)-1])), nil
}

// SetBandwidth selects the RF filter mode of an RF channel: 0 picks the
// bandpass filter automatically from the NCO frequency, BandwidthBypass
// bypasses the bank and leaves only the antialiasing filter. Other values
// change nothing.
func (r *Receiver) SetBandwidth(bandwidth float64, ch int) (float64, error) {
	sel, err := r.channelSelector(ch)
	if err != nil {
		return 0, err
	}

	var code uint8
	switch bandwidth {
	case 0:
		code = layers.FilterAuto
	case BandwidthBypass:
		code = layers.FilterBypass
	default:
		return r.GetBandwidth(ch), nil
	}

	if err := r.set(layers.ItemRFFilter, []byte{sel, code}); err != nil {
		log.Debug("Filter selection not acknowledged: %s", err)
	}

	r.mu.Lock()
	r.bandwidth = bandwidth
	r.mu.Unlock()
	return r.GetBandwidth(ch), nil
}

// GetBandwidth returns the cached filter mode, it never queries the unit
func (r *Receiver) GetBandwidth(ch int) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bandwidth
}

// Bandwidths lists the meaningful filter modes besides automatic selection
func (r *Receiver) Bandwidths() []float64 {
	return []float64{BandwidthBypass}
}

// SetFreqCorr is not supported by the hardware, the correction is always 0
func (r *Receiver) SetFreqCorr(ppm float64, ch int) float64 {
	return r.GetFreqCorr(ch)
}

func (r *Receiver) GetFreqCorr(ch int) float64 {
	return 0
}

// Antennas lists the receive antennas, there is exactly one
func (r *Receiver) Antennas() []string {
	return []string{r.Antenna()}
}

// SetAntenna is a no-op, the unit has a single receive antenna
func (r *Receiver) SetAntenna(antenna string) string {
	return r.Antenna()
}

func (r *Receiver) Antenna() string {
	return "RX"
}
