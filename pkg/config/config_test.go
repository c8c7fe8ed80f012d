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
	"errors"
	"testing"
)

func TestPersistLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := NewDefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Receivers = append(cfg.Receivers, &ReceiverConfig{
		Name:     "lab",
		Host:     "192.168.1.44",
		Port:     50000,
		Channels: 2,
		Label:    "bench unit",
	})
	if err := cfg.Persist(false); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded := NewDefaultConfig()
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", loaded.LogLevel, "debug")
	}
	if len(loaded.Receivers) != 2 {
		t.Fatalf("Receivers: got %d, want 2", len(loaded.Receivers))
	}
	r, err := loaded.Receiver("lab")
	if err != nil {
		t.Fatalf("Receiver: %v", err)
	}
	if r.Host != "192.168.1.44" || r.Channels != 2 {
		t.Errorf("receiver fields not preserved: %+v", r)
	}
	if r.Addr() != "192.168.1.44:50000" {
		t.Errorf("Addr: got %q", r.Addr())
	}
}

func TestPersistRefusesOverwrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := NewDefaultConfig()
	if err := cfg.Persist(false); err != nil {
		t.Fatalf("first Persist: %v", err)
	}
	err := cfg.Persist(false)
	var exists ErrConfigFileExists
	if !errors.As(err, &exists) {
		t.Fatalf("second Persist: got %v, want ErrConfigFileExists", err)
	}
	if err := cfg.Persist(true); err != nil {
		t.Fatalf("Persist with overwrite: %v", err)
	}
}

func TestReceiverNotFound(t *testing.T) {
	cfg := NewDefaultConfig()
	_, err := cfg.Receiver("nope")
	var notFound ErrReceiverNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ErrReceiverNotFound", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.DiscoverConfig.RequestPort != 48321 || cfg.DiscoverConfig.ReplyPort != 48322 {
		t.Errorf("discover ports: %+v", cfg.DiscoverConfig)
	}
	if len(cfg.Receivers) != 1 || cfg.Receivers[0].Port != 50000 {
		t.Errorf("default receiver: %+v", cfg.Receivers)
	}
}
