// Package bucket splits identifier populations into reproducible experiment
// cohorts via salted sha256 hashing, plus a simple random split helper.
package bucket

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/synabon/synabon/internal/models"
)

// ErrConfig is wrapped by every invalid-argument error in this package.
var ErrConfig = errors.New("bucket: invalid configuration")

const saltBytes = 8

// NewSalt returns a fresh random salt encoded as printable text. There is no
// fixed default salt: every call draws new randomness, so an assignment made
// without an explicit salt is not reproducible across calls. Callers wanting
// reproducibility pass their own salt or reuse Assignment.Salt.
func NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("bucket: failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Index computes the bucket for one identifier: the last 6 hex characters of
// sha256(id + "#" + salt), taken as an integer, reduced modulo nBuckets.
// It is a pure function of its inputs.
func Index(id, salt string, nBuckets int) int {
	return int(hashValue(id, salt) % uint64(nBuckets))
}

func hashValue(id, salt string) uint64 {
	sum := sha256.Sum256([]byte(id + "#" + salt))
	digest := hex.EncodeToString(sum[:])
	v, _ := strconv.ParseUint(digest[len(digest)-6:], 16, 64)
	return v
}

// Column is one derived bucket column.
type Column struct {
	// Name is "group" for a single bucket count, "group0", "group1", ... for a
	// list of counts.
	Name string

	// Groups holds one bucket index per input row.
	Groups []int
}

// Assignment is the transient result of a bucket run. It is derived output,
// not part of any dataset.
type Assignment struct {
	// Salt is the salt that produced the assignment. When the caller passed
	// an empty salt this is the freshly generated one.
	Salt string

	// Columns holds one column per requested bucket count, in request order.
	Columns []Column
}

// Assign computes bucket indices for every identifier. Each entry of nBuckets
// produces one column, independently reduced from the same per-row digest.
// An empty salt means "generate a fresh one"; see NewSalt.
func Assign(ids []string, nBuckets []int, salt string) (*Assignment, error) {
	if len(nBuckets) == 0 {
		return nil, fmt.Errorf("%w: at least one bucket count is required", ErrConfig)
	}
	for _, n := range nBuckets {
		if n <= 0 {
			return nil, fmt.Errorf("%w: bucket count must be positive, got %d", ErrConfig, n)
		}
	}
	if salt == "" {
		s, err := NewSalt()
		if err != nil {
			return nil, err
		}
		salt = s
	}

	hashes := make([]uint64, len(ids))
	for i, id := range ids {
		hashes[i] = hashValue(id, salt)
	}

	out := &Assignment{Salt: salt, Columns: make([]Column, len(nBuckets))}
	for c, n := range nBuckets {
		name := "group"
		if len(nBuckets) > 1 {
			name = "group" + strconv.Itoa(c)
		}
		groups := make([]int, len(ids))
		for i, h := range hashes {
			groups[i] = int(h % uint64(n))
		}
		out.Columns[c] = Column{Name: name, Groups: groups}
	}
	return out, nil
}

// AssignDataset buckets a dataset by its user_id column, one index per row.
func AssignDataset(d models.Dataset, nBuckets []int, salt string) (*Assignment, error) {
	return Assign(d.UserIDs(), nBuckets, salt)
}
