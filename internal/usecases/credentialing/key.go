package credentialing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
)

const (
	keyPrefixLive = "am_" + domain.CredentialClassLive + "_"
	keyPrefixTest = "am_" + domain.CredentialClassTest + "_"

	keySecretLength  = 43
	displayPrefixLen = 16
)

// GeneratedKey é uma chave recém emitida. Raw só existe neste momento, o banco guarda Digest.
type GeneratedKey struct {
	Raw    string
	Prefix string
	Digest string
}

// Digest retorna o SHA-256 em hexadecimal da chave
func Digest(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func hasRecognizedPrefix(rawKey string) bool {
	return strings.HasPrefix(rawKey, keyPrefixLive) || strings.HasPrefix(rawKey, keyPrefixTest)
}

// GenerateKey emite uma nova chave da classe live ou test
func GenerateKey(class string) (*GeneratedKey, error) {
	var prefix string
	switch class {
	case domain.CredentialClassLive:
		prefix = keyPrefixLive
	case domain.CredentialClassTest:
		prefix = keyPrefixTest
	default:
		return nil, newCredentialError(ErrUnknownKeyClass, class)
	}

	secret, err := gonanoid.New(keySecretLength)
	if err != nil {
		return nil, err
	}

	raw := prefix + secret

	return &GeneratedKey{
		Raw:    raw,
		Prefix: raw[:displayPrefixLen],
		Digest: Digest(raw),
	}, nil
}
