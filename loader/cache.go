package loader

import (
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/sha3"

	"github.com/probevm/probevm/vm"
)

// Cache decodes program bytes at most once per distinct content, keyed by a
// SHA3-256 digest of the input. vm.FuncHandle is deliberately a pool index
// rather than a pointer (see vm's own design notes), which is exactly what
// makes a decoded *vm.Program safe to share by pointer across every caller
// that asks for the same bytes: nothing in the engine ever mutates a Program
// after Invoke starts.
type Cache struct {
	decoded *lru.Cache
}

// NewCache builds a Cache holding up to capacity decoded programs. A
// non-positive capacity falls back to a single-entry cache rather than
// erroring, since a cache of size zero would defeat the point of having one.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = 1
	}
	c, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{decoded: c}, nil
}

// Load returns the decoded program for data, decoding and caching it on the
// first call for a given content hash and returning the cached pointer on
// every subsequent call with the same bytes.
func (c *Cache) Load(data []byte) (*vm.Program, error) {
	key := digestKey(data)
	if cached, ok := c.decoded.Get(key); ok {
		return cached.(*vm.Program), nil
	}

	p, err := Decode(data)
	if err != nil {
		return nil, err
	}
	c.decoded.Add(key, p)
	return p, nil
}

func digestKey(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
