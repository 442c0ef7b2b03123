package uid

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ErrInvalidNode is returned for node numbers outside [0, 1023].
var ErrInvalidNode = errors.New("uid: snowflake node must be within 0..1023")

// Snowflake generates time-ordered int64 identifiers.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a generator for the given node. Every running
// instance must use a distinct node number.
func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 || node > 1023 {
		return nil, ErrInvalidNode
	}

	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: n}, nil
}

// Generate returns the next identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
