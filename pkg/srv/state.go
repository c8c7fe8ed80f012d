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

package srv

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"github.com/spectrumlab/go-netsdr/pkg/config"
	"github.com/spectrumlab/go-netsdr/pkg/discover"
	"github.com/spectrumlab/go-netsdr/pkg/log"
)

const (
	DevicesBucket  = "devices"
	SettingsBucket = "settings"
)

// Settings is the tuning snapshot kept per receiver so a restarted daemon
// can bring a unit back to where it was
type Settings struct {
	Frequency  float64 `json:"Frequency,omitempty"`
	SampleRate float64 `json:"SampleRate,omitempty"`
	Gain       float64 `json:"Gain,omitempty"`
	Bandwidth  float64 `json:"Bandwidth,omitempty"`
}

type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, cfg *config.Config) (*State, error) {
	db, err := bbolt.Open(cfg.StateFile, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{DevicesBucket, SettingsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

func (s *State) Close() {
	s.DB.Close()
}

// SetUnit records a discovered unit, keyed by serial number
func (s *State) SetUnit(u *discover.Unit) error {
	log.Debug("Recording discovered unit: serial: %s", u.Serial)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(DevicesBucket))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", DevicesBucket))
		}
		uBytes, err := yaml.Marshal(u)
		if err != nil {
			return err
		}
		return b.Put([]byte(u.Serial), uBytes)
	})
}

// Units returns every unit any discovery pass has ever recorded
func (s *State) Units() ([]*discover.Unit, error) {
	var units []*discover.Unit
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(DevicesBucket))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", DevicesBucket))
		}
		return b.ForEach(func(_, uBytes []byte) error {
			u := &discover.Unit{}
			if err := yaml.Unmarshal(uBytes, u); err != nil {
				log.Error("Error while unmarshalling unit %s", err)
				return err
			}
			units = append(units, u)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return units, nil
}

// SetSettings records the tuning snapshot of a receiver
func (s *State) SetSettings(name string, settings *Settings) error {
	log.Debug("Recording settings: receiver: %s", name)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(SettingsBucket))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", SettingsBucket))
		}
		sBytes, err := yaml.Marshal(settings)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), sBytes)
	})
}

// GetSettings returns the recorded snapshot of a receiver, nil when the
// receiver has none yet
func (s *State) GetSettings(name string) (*Settings, error) {
	var settings *Settings
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(SettingsBucket))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", SettingsBucket))
		}
		sBytes := b.Get([]byte(name))
		if sBytes == nil {
			return nil
		}
		settings = &Settings{}
		return yaml.Unmarshal(sBytes, settings)
	}); err != nil {
		return nil, err
	}
	return settings, nil
}
