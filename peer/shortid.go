package peer

import (
	"encoding/hex"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // retained for short, stable peer-id digests, not as a security primitive

	"github.com/purplecoin/pcore/crypto"
)

// shortIDLen is the number of leading ripemd160 digest bytes kept for
// a ShortID. 20 bytes of node id is too much to put in a log line next
// to a dozen other fields; 5 is enough to tell peers apart by eye
// without the risk of a same-prefix collision actually hiding a bug.
const shortIDLen = 5

// ShortID compacts a peer's node id into a short, fixed-width hex
// string suitable for log lines, the way a full 32-byte block hash
// never appears in a log message verbatim elsewhere in this module
// either.
func ShortID(id crypto.NodeId) string {
	h := ripemd160.New()
	h.Write(id.Bytes())
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:shortIDLen])
}
