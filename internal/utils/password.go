package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// RandomPassword returns a temporary password of n alphanumeric
// characters.  It is assigned to customers created implicitly from
// guest details during booking so the row satisfies the NOT NULL
// password column; it is not a security mechanism and customers are
// expected to reset it before logging in.
func RandomPassword(n int) (string, error) {
	return randomFrom(alphanumeric, n)
}
