package fee

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

// IDGenerator hands out time-ordered fee IDs. *snowflake.Node satisfies it.
type IDGenerator interface {
	Generate() snowflake.ID
}

// NewIDGenerator returns a snowflake node; IDs stay unique within the same millisecond.
func NewIDGenerator(nodeID int64) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "creating snowflake node")
	}
	return node, nil
}

// IDAt builds the ID a node would generate at t with the given sequence number.
func IDAt(t time.Time, node, step int64) snowflake.ID {
	ms := t.UnixMilli() - snowflake.Epoch
	return snowflake.ID(ms<<(snowflake.NodeBits+snowflake.StepBits) | node<<snowflake.StepBits | step)
}

// ParseID parses the decimal form of an ID.
func ParseID(s string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(s)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
