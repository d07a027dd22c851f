package port

// PasswordVerifier checks a plaintext password against stored credential
// material. The hash scheme is the implementation's concern; callers treat
// verification as an opaque boolean operation.
type PasswordVerifier interface {
	Verify(password string, encoded string) (bool, error)
}

// PasswordHasher hashes and verifies secrets using the configured algorithm.
type PasswordHasher interface {
	PasswordVerifier
	Hash(password string) (string, error)
}
