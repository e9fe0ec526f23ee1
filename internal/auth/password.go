package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the stored credential for an account password. Cost
// comes from AUTH_BCRYPT_COST; values below bcrypt's minimum fall back to the
// library default so a misconfigured cost can never weaken stored hashes.
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

// ComparePassword checks a login attempt against the stored hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
