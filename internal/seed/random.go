package seed

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/johnwards/filldb/internal/domain"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Field lengths of generated records.
const (
	apiKeyLength          = 512
	descriptionLength     = 256
	adminEmailLength      = 256
	userIDLength          = 56
	userDisplayNameLength = 128
)

// Rand is the random source owned by a Seeder. It doubles as an io.Reader so
// that generated UUIDs follow the same seed as every other field.
type Rand struct {
	*rand.Rand
	src *rand.ChaCha8
}

// NewRand returns a Rand seeded with seed when useSeed is set, and with
// entropy from crypto/rand otherwise.
func NewRand(useSeed bool, seed int64) (*Rand, error) {
	var key [32]byte
	if useSeed {
		binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	} else if _, err := crand.Read(key[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}

	src := rand.NewChaCha8(key)
	return &Rand{Rand: rand.New(src), src: src}, nil
}

// Read fills p with random bytes from the seeded stream.
func (r *Rand) Read(p []byte) (int, error) {
	return r.src.Read(p)
}

// String returns n characters drawn uniformly from [a-zA-Z0-9].
func (r *Rand) String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[r.IntN(len(alphanumeric))]
	}
	return string(b)
}

// Bools returns n independent fair coin flips.
func (r *Rand) Bools(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = r.IntN(2) == 1
	}
	return out
}

// Choice returns a uniformly chosen element of items, which must not be empty.
func Choice[T any](r *Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// APIClient generates an API client with random credentials and flags.
func (r *Rand) APIClient() (*domain.APIClient, error) {
	flags := r.Bools(2)

	c := &domain.APIClient{
		APIKey:      r.String(apiKeyLength),
		Description: r.String(descriptionLength),
		AdminEmail:  r.String(adminEmailLength) + "@example.com",
		Enabled:     flags[0],
		Trusted:     flags[1],
	}

	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("generate api client id: %w", err)
	}
	c.ID = id
	return c, nil
}

// User generates a client user with a random id, display name and auth method.
func (r *Rand) User() domain.User {
	return domain.User{
		ID:          r.String(userIDLength),
		DisplayName: r.String(userDisplayNameLength),
		AuthMethod:  Choice(r, domain.AuthMethods),
	}
}
