package providers

import "time"

const (
	// shutdownTimeout bounds the final cache persist on shutdown.
	shutdownTimeout = 30 * time.Second
)
