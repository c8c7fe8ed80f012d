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
	"fmt"
)

// ErrReceiverNotConnected returned when a request names a receiver the
// daemon has no live session for, either unknown or unreachable at startup
type ErrReceiverNotConnected struct {
	Name string
}

func (e ErrReceiverNotConnected) Error() string {
	return fmt.Sprintf("Receiver not connected: %s", e.Name)
}
