package uid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// ErrNoNodeIdentity indicates no stable node identity could be found.
var ErrNoNodeIdentity = errors.New("uid: cannot determine stable node identity")

// ObjectID generates 32-byte opaque identifiers rendered as 64 hex chars.
// Used for bearer-style tokens (refresh tokens) where IDs must be long enough
// to be unguessable and safe to put in a URL or header.
type ObjectID struct {
	nodeID  [6]byte
	pid     uint16
	counter uint32
}

// NewObjectID creates a generator seeded with a stable node identity and a
// random counter start.
func NewObjectID() (*ObjectID, error) {
	g := &ObjectID{pid: uint16(os.Getpid())}

	src, err := stableNodeIdentity()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(src))
	copy(g.nodeID[:], sum[:6])

	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	g.counter = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])

	return g, nil
}

func stableNodeIdentity() (string, error) {
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}

	if h, err := os.Hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}

	return "", ErrNoNodeIdentity
}

// Generate returns a 64-character hex string: 6 bytes of millisecond
// timestamp, 6 bytes of node identity, 2 bytes of pid, 4 bytes of counter,
// and 14 random bytes.
func (g *ObjectID) Generate() string {
	var raw [32]byte

	ts := uint64(time.Now().UnixMilli())
	raw[0] = byte(ts >> 40)
	raw[1] = byte(ts >> 32)
	raw[2] = byte(ts >> 24)
	raw[3] = byte(ts >> 16)
	raw[4] = byte(ts >> 8)
	raw[5] = byte(ts)

	copy(raw[6:12], g.nodeID[:])

	raw[12] = byte(g.pid >> 8)
	raw[13] = byte(g.pid)

	c := atomic.AddUint32(&g.counter, 1)
	raw[14] = byte(c >> 24)
	raw[15] = byte(c >> 16)
	raw[16] = byte(c >> 8)
	raw[17] = byte(c)

	if _, err := rand.Read(raw[18:]); err != nil {
		// Deterministic fallback keeps IDs unique even without entropy.
		sum := sha256.Sum256(raw[:18])
		copy(raw[18:], sum[:14])
	}

	var out [64]byte
	hex.Encode(out[:], raw[:])
	return string(out[:])
}
