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

// Options is the board option bitmask reported by the unit
type Options uint8

const (
	OptionSound         Options = 1 << 0
	OptionRefLock       Options = 1 << 1
	OptionDownConverter Options = 1 << 2
	OptionUpConverter   Options = 1 << 3
	OptionX2            Options = 1 << 4
)

// X2 reports the extended board enabling dual independent A/D paths
func (o Options) X2() bool {
	return o&OptionX2 != 0
}

func (o Options) UpConverter() bool {
	return o&OptionUpConverter != 0
}

func (o Options) DownConverter() bool {
	return o&OptionDownConverter != 0
}

func (o Options) RefLock() bool {
	return o&OptionRefLock != 0
}

func (o Options) Sound() bool {
	return o&OptionSound != 0
}

// String renders the mask the way the fitted option list is usually
// quoted for these units, a dash for every absent option
func (o Options) String() string {
	marks := []struct {
		set  bool
		mark byte
	}{
		{o.X2(), '2'},
		{o.UpConverter(), 'U'},
		{o.DownConverter(), 'D'},
		{o.RefLock(), 'R'},
		{o.Sound(), 'S'},
	}
	out := make([]byte, len(marks))
	for i, m := range marks {
		if m.set {
			out[i] = m.mark
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}
