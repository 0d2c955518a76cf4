package mpsc

import "errors"

// ErrTooManyProducers is returned by RegisterProducer once MaxProducers
// registrations have already succeeded. It is never retried internally —
// the caller decides whether to give up or reconfigure.
var ErrTooManyProducers = errors.New("mpsc: too many producers")

// ErrClosed is returned by RegisterProducer once the channel has been
// closed.
var ErrClosed = errors.New("mpsc: channel closed")
