package mqtt

import (
	"errors"
	"time"
)

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt client not connected")

// CoverageMessage is the payload broadcast for one resolved cloud value.
type CoverageMessage struct {
	ID       string    `json:"id"`
	Delta    int64     `json:"delta"`
	Coverage float64   `json:"coverage"`
	Map      []float64 `json:"map,omitempty"`
	Time     time.Time `json:"time"`
}

// Publisher sends cloud coverage messages to a broker.
type Publisher interface {
	// PublishCoverage sends msg to topic and returns the message identifier.
	// An empty msg.ID is replaced by a generated one.
	PublishCoverage(topic string, msg CoverageMessage) (string, error)
	Disconnect()
}
