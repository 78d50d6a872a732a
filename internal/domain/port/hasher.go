package port

// PasswordHasher is the port for credential hashing
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns entity.ErrPasswordMismatch when password does not match hash
	Compare(hash, password string) error
}
