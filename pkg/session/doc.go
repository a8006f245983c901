/*
Package session keeps live playback sessions for hosts that serve many
clients at once, such as the HTTP and MCP adapters.

Sessions are keyed by random IDs. Deleting a session pauses it before it is
closed, so its autoplay timer never fires after the session is gone.
*/
package session

import "errors"

// ErrLimitReached is returned by Create when the session cap is hit.
var ErrLimitReached = errors.New("session limit reached")
