// Package ethnode connects to an EVM JSON-RPC endpoint.
package ethnode

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
	_defaultDialTimeout  = 5 * time.Second
)

type Node struct {
	connAttempts int
	connTimeout  time.Duration
	dialTimeout  time.Duration

	// ChainID as reported by the node on connect.
	ChainID *big.Int

	*ethclient.Client
}

// New dials url and asks the node for its chain id, retrying until it answers.
func New(ctx context.Context, url string, opts ...Option) (*Node, error) {
	n := &Node{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		dialTimeout:  _defaultDialTimeout,
	}

	for _, opt := range opts {
		opt(n)
	}

	var err error
	for n.connAttempts > 0 {
		err = n.connect(ctx, url)
		if err == nil {
			break
		}

		log.Printf("Ethereum node is trying to connect, attempts left: %d", n.connAttempts)

		time.Sleep(n.connTimeout)

		n.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("ethnode - New - connAttempts == 0: %w", err)
	}

	return n, nil
}

func (n *Node) connect(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, n.dialTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return fmt.Errorf("ethclient.DialContext: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()

		return fmt.Errorf("client.ChainID: %w", err)
	}

	n.Client = client
	n.ChainID = chainID

	return nil
}

func (n *Node) Close() {
	if n.Client != nil {
		n.Client.Close()
	}
}
