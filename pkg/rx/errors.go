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
	"fmt"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
)

// ErrChannelCount returned when a session is constructed with a channel
// count the hardware does not have
type ErrChannelCount struct {
	Count int
}

func (e ErrChannelCount) Error() string {
	return fmt.Sprintf("Number of channels must be 1 or 2, got %d", e.Count)
}

// ErrChannel returned for RF channel indexes that do not exist on this
// session, channel 1 needs a two-channel setup
type ErrChannel struct {
	Chan int
}

func (e ErrChannel) Error() string {
	return fmt.Sprintf("Channel must be 0 or 1, got %d", e.Chan)
}

// ErrShortParams returned when a response carries fewer parameter bytes
// than the item's layout requires
type ErrShortParams struct {
	Item layers.ControlItem
	Got  int
}

func (e ErrShortParams) Error() string {
	return fmt.Sprintf("Response for item %s too short: %d parameter bytes", e.Item, e.Got)
}

// ErrOutputArity returned when ReadSamples gets fewer output slices than
// the session has RF channels
type ErrOutputArity struct {
	Want, Got int
}

func (e ErrOutputArity) Error() string {
	return fmt.Sprintf("Need %d output channels, got %d", e.Want, e.Got)
}
