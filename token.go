package sqlidentity

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/goliatone/go-errors"
)

// tokenByteLen is the entropy carried by every session token. 24 random
// bytes encode to a 32 character base64 string with no padding.
const tokenByteLen = 24

// MintToken returns a new opaque session token: 24 cryptographically random
// bytes, standard base64 encoded. Tokens carry no claims; they are only
// meaningful as lookup keys into the session store.
func MintToken() (string, error) {
	buf := make([]byte, tokenByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "unable to mint session token").
			WithTextCode(TextCodeTokenMintFailed).
			WithCode(errors.CodeInternal)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// validHeaderValue reports whether s can travel as an HTTP header value:
// horizontal tab plus any visible or obs-text octet.
func validHeaderValue(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '\t' && (b < 0x20 || b == 0x7f) {
			return false
		}
	}
	return true
}
