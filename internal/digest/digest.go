package digest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Size is the digest length in bytes.
const Size = md5.Size

// Digest is a fixed-size content fingerprint.
type Digest [Size]byte

// String renders the digest as lower-case hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Bytes hashes an in-memory payload.
func Bytes(data []byte) Digest {
	return Digest(md5.Sum(data))
}

// File streams the file at path through the hasher.
func File(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return Digest{}, fmt.Errorf("read %s: %w", path, err)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// Set records digests observed during a single run.
type Set struct {
	seen map[Digest]struct{}
}

// NewSet returns an empty digest set.
func NewSet() *Set {
	return &Set{seen: make(map[Digest]struct{})}
}

// Seen reports whether d was added before.
func (s *Set) Seen(d Digest) bool {
	_, ok := s.seen[d]
	return ok
}

// Add records d. It returns false when d was already present.
func (s *Set) Add(d Digest) bool {
	if s.Seen(d) {
		return false
	}
	s.seen[d] = struct{}{}
	return true
}

// Len returns the number of distinct digests recorded.
func (s *Set) Len() int {
	return len(s.seen)
}
