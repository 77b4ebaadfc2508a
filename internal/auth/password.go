package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of the plaintext at the given cost.
// Costs below the bcrypt minimum fall back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks plain against a stored hash, returning bcrypt's
// mismatch error on failure.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
