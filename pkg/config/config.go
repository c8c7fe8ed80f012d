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

package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type DiscoverConfig struct {
	Broadcast   string `json:"broadcast,omitempty"`
	RequestPort int    `json:"requestPort,omitempty"`
	ReplyPort   int    `json:"replyPort,omitempty"`
}

type ApiConfig struct {
	Address string `json:"address,omitempty"`
	Port    int    `json:"port,omitempty"`
}

// ReceiverConfig describes one NetSDR unit the daemon may drive. DataPort
// is the local UDP bind port for the sample stream; zero means "same value
// as the control port", which is what the hardware expects by default.
type ReceiverConfig struct {
	Name     string `json:"name"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Channels int    `json:"channels,omitempty"`
	Label    string `json:"label,omitempty"`
	DataPort int    `json:"dataPort,omitempty"`
}

func (r *ReceiverConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type Config struct {
	LogLevel        string `json:"logLevel,omitempty"`
	*DiscoverConfig `json:"discover,omitempty"`
	*ApiConfig      `json:"api,omitempty"`
	StateFile       string            `json:"stateFile,omitempty"`
	Receivers       []*ReceiverConfig `json:"receivers"`
	filepath        string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Receiver looks up a configured receiver by name.
func (c *Config) Receiver(name string) (*ReceiverConfig, error) {
	for _, r := range c.Receivers {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, ErrReceiverNotFound{Name: name}
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultStateFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, StateFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		DiscoverConfig: &DiscoverConfig{
			Broadcast:   DefaultDiscoverBroadcast,
			RequestPort: DefaultDiscoverRequestPort,
			ReplyPort:   DefaultDiscoverReplyPort,
		},
		ApiConfig: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		StateFile: DefaultStateFilePath(),
		Receivers: []*ReceiverConfig{
			{
				Name:     "main",
				Host:     DefaultControlHost,
				Port:     DefaultControlPort,
				Channels: 1,
			},
		},
		filepath: DefaultConfigPath(),
	}
}
