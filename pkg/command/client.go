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
	"errors"
	"fmt"

	"github.com/imroc/req"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/discover"
	"github.com/spectrumlab/go-netsdr/pkg/rx"
	"github.com/spectrumlab/go-netsdr/pkg/srv"
)

// ApiClient talks to the daemon REST API
type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	host := cfg.ApiConfig.Address
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", host, cfg.ApiConfig.Port),
	}
}

func (c *ApiClient) receiverUrl(receiver, op string) string {
	return fmt.Sprintf("%s/receivers/%s/%s", c.ApiPrefix, receiver, op)
}

func (c *ApiClient) receiverChanUrl(receiver, op string, ch int) string {
	return fmt.Sprintf("%s/receivers/%s/%s?chan=%d", c.ApiPrefix, receiver, op, ch)
}

// Receivers requests the list of connected receivers and their run state
func (c *ApiClient) Receivers() ([]srv.ReceiverStatus, error) {
	r, err := req.Get(fmt.Sprintf("%s/receivers", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var statuses []srv.ReceiverStatus
	err = r.ToJSON(&statuses)
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

// Devices requests every unit discovery has ever recorded
func (c *ApiClient) Devices() ([]*discover.Unit, error) {
	r, err := req.Get(fmt.Sprintf("%s/devices", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var units []*discover.Unit
	err = r.ToJSON(&units)
	if err != nil {
		return nil, err
	}
	return units, nil
}

// Discover asks the daemon to run a discovery pass and returns the units
// that answered it
func (c *ApiClient) Discover() ([]*discover.Unit, error) {
	r, err := req.Post(fmt.Sprintf("%s/discover", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var units []*discover.Unit
	err = r.ToJSON(&units)
	if err != nil {
		return nil, err
	}
	return units, nil
}

// Start sends request to start streaming for a receiver
func (c *ApiClient) Start(receiver string) error {
	r, err := req.Post(c.receiverUrl(receiver, "start"))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Stop sends request to stop streaming for a receiver
func (c *ApiClient) Stop(receiver string) error {
	r, err := req.Post(c.receiverUrl(receiver, "stop"))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Frequency requests the applied center frequency of an RF channel
func (c *ApiClient) Frequency(receiver string, ch int) (float64, error) {
	r, err := req.Get(c.receiverChanUrl(receiver, "frequency", ch))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	freq := &srv.Frequency{}
	err = r.ToJSON(freq)
	if err != nil {
		return 0, err
	}
	return freq.Frequency, nil
}

// SetFrequency tunes an RF channel and returns the frequency the unit
// reports back
func (c *ApiClient) SetFrequency(receiver string, freq float64, ch int) (float64, error) {
	body := &srv.Frequency{Frequency: freq}
	r, err := req.Put(c.receiverChanUrl(receiver, "frequency", ch), req.BodyJSON(body))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	err = r.ToJSON(body)
	if err != nil {
		return 0, err
	}
	return body.Frequency, nil
}

// Rate requests the configured sample rate of a receiver
func (c *ApiClient) Rate(receiver string) (float64, error) {
	r, err := req.Get(c.receiverUrl(receiver, "rate"))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	rate := &srv.Rate{}
	err = r.ToJSON(rate)
	if err != nil {
		return 0, err
	}
	return rate.Rate, nil
}

// SetRate changes the sample rate of a receiver. The daemon refuses this
// while the receiver is streaming.
func (c *ApiClient) SetRate(receiver string, rate float64) (float64, error) {
	body := &srv.Rate{Rate: rate}
	r, err := req.Put(c.receiverUrl(receiver, "rate"), req.BodyJSON(body))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	err = r.ToJSON(body)
	if err != nil {
		return 0, err
	}
	return body.Rate, nil
}

// Rates requests the sample rates the hardware can produce
func (c *ApiClient) Rates(receiver string) ([]float64, error) {
	r, err := req.Get(c.receiverUrl(receiver, "rates"))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var rates []float64
	err = r.ToJSON(&rates)
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// Gain requests the applied attenuation of an RF channel
func (c *ApiClient) Gain(receiver string, ch int) (float64, error) {
	r, err := req.Get(c.receiverChanUrl(receiver, "gain", ch))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	gain := &srv.Gain{}
	err = r.ToJSON(gain)
	if err != nil {
		return 0, err
	}
	return gain.Gain, nil
}

// SetGain sets the attenuator of an RF channel and returns the gain the
// unit reports back
func (c *ApiClient) SetGain(receiver string, gain float64, ch int) (float64, error) {
	body := &srv.Gain{Gain: gain}
	r, err := req.Put(c.receiverChanUrl(receiver, "gain", ch), req.BodyJSON(body))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	err = r.ToJSON(body)
	if err != nil {
		return 0, err
	}
	return body.Gain, nil
}

// SetBandwidth selects the RF filter mode of an RF channel
func (c *ApiClient) SetBandwidth(receiver string, bandwidth float64, ch int) (float64, error) {
	body := &srv.Bandwidth{Bandwidth: bandwidth}
	r, err := req.Put(c.receiverChanUrl(receiver, "bandwidth", ch), req.BodyJSON(body))
	if err != nil {
		return 0, err
	}
	if r.Response().StatusCode != 200 {
		return 0, errors.New(r.Response().Status)
	}
	err = r.ToJSON(body)
	if err != nil {
		return 0, err
	}
	return body.Bandwidth, nil
}

// Info requests the identification a receiver collected at connect time
func (c *ApiClient) Info(receiver string) (*rx.Info, error) {
	r, err := req.Get(c.receiverUrl(receiver, "info"))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	info := &rx.Info{}
	err = r.ToJSON(info)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Persist asks the daemon to capture the sample stream of a receiver to a
// fresh file and returns the file path
func (c *ApiClient) Persist(receiver, dir, filePrefix string) (string, error) {
	persist := &srv.Persist{
		Dir:        dir,
		FilePrefix: filePrefix,
	}
	r, err := req.Post(c.receiverUrl(receiver, "persist"), req.BodyJSON(persist))
	if err != nil {
		return "", err
	}
	if r.Response().StatusCode != 200 {
		return "", errors.New(r.Response().Status)
	}
	capture := &srv.CaptureFile{}
	err = r.ToJSON(capture)
	if err != nil {
		return "", err
	}
	return capture.File, nil
}

// Flush asks the daemon to close the capture file of a receiver
func (c *ApiClient) Flush(receiver string) error {
	r, err := req.Post(c.receiverUrl(receiver, "flush"))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}
