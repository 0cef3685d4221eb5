package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2Params are the Argon2id cost parameters. Verify reads the costs back
// out of the encoded hash, so these can be raised later without invalidating
// stored passwords.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

// defaultArgon2Params targets ~50ms per hash on the API pods: logins are rare
// relative to request traffic, so memory is kept at 64MiB with 3 passes.
var defaultArgon2Params = argon2Params{
	memory:  64 * 1024,
	time:    3,
	threads: 2,
	keyLen:  32,
	saltLen: 16,
}

// Argon2HashService implements ports.HashService using Argon2id.
type Argon2HashService struct {
	params argon2Params
}

// NewArgon2HashService creates a hash service with the default cost parameters.
func NewArgon2HashService() *Argon2HashService {
	return &Argon2HashService{params: defaultArgon2Params}
}

// Hash derives an Argon2id hash of the password in the standard encoded form
// ($argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>).
func (s *Argon2HashService) Hash(password string) (string, error) {
	salt := make([]byte, s.params.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, s.params.time, s.params.memory, s.params.threads, s.params.keyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		s.params.memory, s.params.time, s.params.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether the password matches the encoded hash, re-deriving
// with the costs stored in the hash itself.
func (s *Argon2HashService) Verify(password string, encodedHash string) (bool, error) {
	salt, hash, params, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}

	otherHash := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, params.keyLen)

	return subtle.ConstantTimeCompare(hash, otherHash) == 1, nil
}

func decodeArgon2Hash(encodedHash string) (salt, hash []byte, params argon2Params, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, params, fmt.Errorf("malformed password hash: %d segments", len(parts))
	}

	if parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, fmt.Errorf("parsing hash version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("incompatible argon2 version: %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return nil, nil, params, fmt.Errorf("parsing hash costs: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}

	params.keyLen = uint32(len(hash))

	return salt, hash, params, nil
}
