package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the rest of the stack was tuned for.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. Each call generates
// a fresh salt, so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// bcrypt hash. A mismatch returns false, never an error to the caller.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
