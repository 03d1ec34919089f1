package repository

import (
	"encoding/binary"

	"github.com/osmosis-labs/sumtree-orderbook/domain"
)

// Key layout. Tick IDs are signed, so they are encoded big-endian with
// the sign bit flipped to make the byte order match the numeric order.
//
//	meta/orderbook                     orderbook state
//	meta/active                        activity flag
//	meta/makerfee                      maker fee
//	meta/makerfeerecipient             maker fee recipient
//	seq/order                          order id counter
//	seq/node/<tick><dir>               per-tree node key counter
//	liq/<dir>                          directional liquidity
//	tick/<tick>                        tick state
//	order/<tick><id>                   limit orders
//	ordidx/<owner>\x00<tick><id>       owner order index
//	tree/<tick><dir>                   sumtree root keys
//	node/<tick><dir><key>              sumtree nodes
var (
	keyOrderbook         = []byte("meta/orderbook")
	keyActive            = []byte("meta/active")
	keyMakerFee          = []byte("meta/makerfee")
	keyMakerFeeRecipient = []byte("meta/makerfeerecipient")
	keyOrderSeq          = []byte("seq/order")

	prefixNodeSeq  = []byte("seq/node/")
	prefixLiq      = []byte("liq/")
	prefixTick     = []byte("tick/")
	prefixOrder    = []byte("order/")
	prefixOrderIdx = []byte("ordidx/")
	prefixTree     = []byte("tree/")
	prefixNode     = []byte("node/")
)

const signFlip = uint64(1) << 63

// encodeTickID encodes a tick so lexicographic byte order equals
// numeric order across negative and positive ticks.
func encodeTickID(tickID int64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(tickID)^signFlip)
	return out
}

func decodeTickID(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ signFlip)
}

func encodeUint64(v uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, v)
	return out
}

func directionByte(direction domain.OrderDirection) byte {
	if direction == domain.BID {
		return 'b'
	}
	return 'a'
}

func tickStateKey(tickID int64) []byte {
	return append(append([]byte{}, prefixTick...), encodeTickID(tickID)...)
}

func orderKey(tickID int64, orderID uint64) []byte {
	key := append(append([]byte{}, prefixOrder...), encodeTickID(tickID)...)
	return append(key, encodeUint64(orderID)...)
}

func ownerIndexPrefix(owner string) []byte {
	key := append(append([]byte{}, prefixOrderIdx...), []byte(owner)...)
	return append(key, 0x00)
}

func ownerIndexKey(owner string, tickID int64, orderID uint64) []byte {
	key := append(ownerIndexPrefix(owner), encodeTickID(tickID)...)
	return append(key, encodeUint64(orderID)...)
}

func liquidityKey(direction domain.OrderDirection) []byte {
	return append(append([]byte{}, prefixLiq...), directionByte(direction))
}

func treeRootKey(tickID int64, direction domain.OrderDirection) []byte {
	key := append(append([]byte{}, prefixTree...), encodeTickID(tickID)...)
	return append(key, directionByte(direction))
}

func nodeSeqKey(tickID int64, direction domain.OrderDirection) []byte {
	key := append(append([]byte{}, prefixNodeSeq...), encodeTickID(tickID)...)
	return append(key, directionByte(direction))
}

func nodePrefix(tickID int64, direction domain.OrderDirection) []byte {
	key := append(append([]byte{}, prefixNode...), encodeTickID(tickID)...)
	return append(key, directionByte(direction))
}

func nodeKey(tickID int64, direction domain.OrderDirection, key uint64) []byte {
	return append(nodePrefix(tickID, direction), encodeUint64(key)...)
}
