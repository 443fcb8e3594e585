// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "github.com/oklog/ulid/v2"

// NewID generates a new ULID string for use as a work item identifier.
// The default entropy source is monotonic, so identifiers minted by one
// process are unique and strictly increasing.
func NewID() string {
	return ulid.Make().String()
}
