package engagement

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/inkwell-cms/inkwell/domain"
)

// Fingerprinter derives the anonymous like identity from transport-layer
// client signals. No login is required; the salt keeps raw IPs out of the
// like table.
type Fingerprinter struct {
	salt string
}

// NewFingerprinter creates a fingerprinter with the given salt.
func NewFingerprinter(salt string) *Fingerprinter {
	return &Fingerprinter{salt: salt}
}

// Fingerprint hashes (salt, IP, user-agent) into a stable hex identity.
func (f *Fingerprinter) Fingerprint(ident domain.ClientIdentity) string {
	h := sha256.New()
	h.Write([]byte(f.salt))
	h.Write([]byte{0})
	h.Write([]byte(ident.IP))
	h.Write([]byte{0})
	h.Write([]byte(ident.UserAgent))
	return hex.EncodeToString(h.Sum(nil))
}
