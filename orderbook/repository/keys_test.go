package repository

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
	"github.com/osmosis-labs/sumtree-orderbook/orderbook/tickmath"
)

// Tick keys must sort in numeric order so that iterating the tick
// prefix visits ticks from the most negative to the most positive.
func TestEncodeTickIDOrdering(t *testing.T) {
	ticks := []int64{tickmath.MinTick, -1500000, -1, 0, 1, 40000000, tickmath.MaxTick}

	for i := 1; i < len(ticks); i++ {
		prev := encodeTickID(ticks[i-1])
		cur := encodeTickID(ticks[i])
		assert.True(t, bytes.Compare(prev, cur) < 0)
	}
}

func TestEncodeTickIDRoundTrip(t *testing.T) {
	for _, tick := range []int64{tickmath.MinTick, -1, 0, 1, tickmath.MaxTick} {
		assert.Equal(t, tick, decodeTickID(encodeTickID(tick)))
	}
}

func TestOwnerIndexPrefixIsolation(t *testing.T) {
	// "alice" must not be a prefix of "alicea" keys.
	alice := ownerIndexKey("alice", 0, 1)
	alicea := ownerIndexKey("alicea", 0, 1)
	assert.False(t, bytes.HasPrefix(alicea, ownerIndexPrefix("alice")))
	assert.True(t, bytes.HasPrefix(alice, ownerIndexPrefix("alice")))
}

func TestDirectionalKeysDistinct(t *testing.T) {
	assert.NotEqual(t, treeRootKey(5, domain.BID), treeRootKey(5, domain.ASK))
	assert.NotEqual(t, nodeKey(5, domain.BID, 1), nodeKey(5, domain.ASK, 1))
	assert.NotEqual(t, liquidityKey(domain.BID), liquidityKey(domain.ASK))
}
