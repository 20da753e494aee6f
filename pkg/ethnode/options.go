package ethnode

import "time"

type Option func(*Node)

func ConnAttempts(attempts int) Option {
	return func(n *Node) {
		n.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(n *Node) {
		n.connTimeout = timeout
	}
}

// DialTimeout bounds one dial and chain id round trip.
func DialTimeout(timeout time.Duration) Option {
	return func(n *Node) {
		n.dialTimeout = timeout
	}
}
