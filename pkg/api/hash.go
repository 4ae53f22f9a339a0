package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashDocument returns a deterministic BLAKE3 hash of a rendered document
// for the given page. The page id is part of the hash so identical markup
// on two pages never shares a digest.
func HashDocument(pageID string, doc []byte) string {
	h := blake3.New()

	h.Write([]byte(pageID))
	h.Write([]byte{0})
	h.Write(doc)

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
