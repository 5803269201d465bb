package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/simcase/internal/value"
)

// Domain prefix for content-addressed case hashes. The version suffix
// enables future algorithm migration.
const domainCase = "simcase/case/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// caseHash computes the content-addressed hash of one case record.
// The timestamp is excluded: two recordings of the same case data are
// the same case even when re-recorded at a different time, which is what
// makes crash-and-resume idempotent.
func caseHash(rec *value.Object) (string, error) {
	stable := value.NewObject()
	for _, k := range rec.Keys() {
		if k == "timestamp" {
			continue
		}
		v, _ := rec.Get(k)
		stable.Set(k, v)
	}
	data, err := marshalStable(stable)
	if err != nil {
		return "", fmt.Errorf("case hash: %w", err)
	}
	return hashWithDomain(domainCase, data), nil
}
