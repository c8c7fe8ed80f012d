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

package discover

import (
	"fmt"

	"github.com/spectrumlab/go-netsdr/pkg/layers"
)

// ErrNotResponse returned when a datagram on the reply port is not a
// discovery response, for example a request from another client
type ErrNotResponse struct {
	Op layers.DiscoveryOp
}

func (e ErrNotResponse) Error() string {
	return fmt.Sprintf("Discovery datagram is not a response: op %s", e.Op)
}
