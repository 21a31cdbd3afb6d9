// Package lifecycle holds shared lifecycle settings for long-lived resources.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of servers and clients.
const DefaultTimeout = 10 * time.Second
