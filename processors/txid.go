package processors

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// transactionIDSpace bounds the numeric suffix to five digits.
const transactionIDSpace = 100000

// TransactionIDGenerator issues ids of the form <prefix>_<5 digits>.
type TransactionIDGenerator interface {
	Next(prefix string) string
}

// RandomIDGenerator draws the suffix from a fresh random UUID. Two calls
// with the same amount no longer share an id, but with only five digits
// collisions remain possible and callers must not treat ids as unique keys.
type RandomIDGenerator struct{}

func (RandomIDGenerator) Next(prefix string) string {
	id := uuid.New()
	n := binary.BigEndian.Uint32(id[:4]) % transactionIDSpace
	return formatTransactionID(prefix, uint64(n))
}

// SequenceIDGenerator hands out 00001, 00002, ... and wraps after 99999.
// It is safe for concurrent use.
type SequenceIDGenerator struct {
	counter atomic.Uint64
}

func NewSequenceIDGenerator(start uint64) *SequenceIDGenerator {
	g := &SequenceIDGenerator{}
	g.counter.Store(start)
	return g
}

func (g *SequenceIDGenerator) Next(prefix string) string {
	return formatTransactionID(prefix, g.counter.Add(1)%transactionIDSpace)
}

// NewIDGenerator maps the TXID_STRATEGY setting to a generator.
func NewIDGenerator(strategy string) (TransactionIDGenerator, error) {
	switch strategy {
	case "", "random":
		return RandomIDGenerator{}, nil
	case "sequence":
		return NewSequenceIDGenerator(0), nil
	default:
		return nil, fmt.Errorf("unknown transaction id strategy %q", strategy)
	}
}

func formatTransactionID(prefix string, n uint64) string {
	return fmt.Sprintf("%s_%05d", prefix, n)
}
