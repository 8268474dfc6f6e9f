package registration

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters. The digest is self describing, so these can be
// raised later without invalidating stored hashes.
const (
	hashTime    uint32 = 3
	hashMemory  uint32 = 64 * 1024
	hashThreads uint8  = 2
	hashKeyLen  uint32 = 32
	hashSaltLen        = 16
)

// HashPassword will generate an argon2id digest in PHC string format,
// embedding version, cost parameters, and a fresh random salt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	salt := make([]byte, hashSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate password salt")
	}

	sum := argon2.IDKey([]byte(password), salt, hashTime, hashMemory, hashThreads, hashKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashMemory,
		hashTime,
		hashThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the stored digest
func ComparePasswordAndHash(password, hash string) error {
	salt, expected, timeCost, memory, threads, err := decodeHash(hash)
	if err != nil {
		return err
	}

	actual := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(expected)))
	if subtle.ConstantTimeCompare(actual, expected) != 1 {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

func decodeHash(hash string) (salt, sum []byte, timeCost, memory uint32, threads uint8, err error) {
	invalid := func() error {
		return goerrors.New("invalid password hash", goerrors.CategoryValidation).
			WithTextCode(TextCodeInternal)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, invalid()
	}

	version, verr := parsePrefixedUint(parts[2], "v=", 31)
	if verr != nil || int(version) != argon2.Version {
		return nil, nil, 0, 0, 0, invalid()
	}

	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		return nil, nil, 0, 0, 0, invalid()
	}
	memory, merr := parsePrefixedUint(params[0], "m=", 32)
	timeCost, terr := parsePrefixedUint(params[1], "t=", 32)
	par, perr := parsePrefixedUint(params[2], "p=", 8)
	if merr != nil || terr != nil || perr != nil {
		return nil, nil, 0, 0, 0, invalid()
	}

	salt, serr := base64.RawStdEncoding.DecodeString(parts[4])
	if serr != nil {
		return nil, nil, 0, 0, 0, invalid()
	}
	sum, herr := base64.RawStdEncoding.DecodeString(parts[5])
	if herr != nil {
		return nil, nil, 0, 0, 0, invalid()
	}

	return salt, sum, timeCost, memory, uint8(par), nil
}

func parsePrefixedUint(value, prefix string, bits int) (uint32, error) {
	if !strings.HasPrefix(value, prefix) {
		return 0, fmt.Errorf("missing %q prefix", prefix)
	}
	parsed, err := strconv.ParseUint(strings.TrimPrefix(value, prefix), 10, bits)
	if err != nil {
		return 0, err
	}
	return uint32(parsed), nil
}
