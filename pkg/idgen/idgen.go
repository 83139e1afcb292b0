// Package idgen provides the process-wide Snowflake-style 64-bit id
// generator (C7), used for order idempotency tokens.
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator emits monotonically increasing 64-bit ids. It is safe for
// concurrent use by many request handlers and the reconciler at once.
type Generator struct {
	node *snowflake.Node
}

// New builds a Generator for the given node id (0-1023). Node ids must be
// unique per deployed instance; this package does not coordinate that
// across processes.
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("idgen: invalid node id %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// Next returns the next id in the sequence.
func (g *Generator) Next() int64 {
	return int64(g.node.Generate())
}
