package auth

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// defaultBcryptCost keeps a single hash in the tens of milliseconds on
// current hardware. Raise via BCRYPT_COST as machines get faster.
const defaultBcryptCost = 12

// PasswordHasher hashes and verifies user passwords with bcrypt. The work
// factor is fixed at construction; rehashing existing credentials on a cost
// change is out of scope, bcrypt encodes the cost in the hash itself.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher with the cost from BCRYPT_COST, falling
// back to the default when unset or outside bcrypt's supported range.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCostFromEnv()}
}

func bcryptCostFromEnv() int {
	v := os.Getenv("BCRYPT_COST")
	if v == "" {
		return defaultBcryptCost
	}
	cost, err := strconv.Atoi(v)
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return defaultBcryptCost
	}
	return cost
}

// Hash derives a storable bcrypt hash from the plaintext password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether password matches the stored hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
