package consumer

import (
	"time"

	"github.com/segmentio/kafka-go"
)

type Option func(*Consumer)

func ConnAttempts(attempts int) Option {
	return func(c *Consumer) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *Consumer) {
		c.connTimeout = timeout
	}
}

// MaxWait bounds how long a fetch waits for new data.
func MaxWait(d time.Duration) Option {
	return func(c *Consumer) {
		c.maxWait = d
	}
}

// FromFirstOffset makes a new consumer group start at the oldest message.
func FromFirstOffset() Option {
	return func(c *Consumer) {
		c.startOffset = kafka.FirstOffset
	}
}
