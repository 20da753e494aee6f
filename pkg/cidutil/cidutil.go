package cidutil

import (
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1RawSHA256 returns the CIDv1 (raw codec, sha2-256 multihash) of data.
func CIDv1RawSHA256(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("cidutil - CIDv1RawSHA256 - multihash.Sum: %w", err)
	}

	return cid.NewCidV1(cid.Raw, sum), nil
}

// Parse validates a content identifier returned by a provider and normalizes it to
// its canonical string form. Both v0 (Qm...) and v1 identifiers are accepted.
func Parse(s string) (string, error) {
	id, err := cid.Decode(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("cidutil - Parse - cid.Decode: %w", err)
	}
	if !id.Defined() {
		return "", fmt.Errorf("cidutil - Parse: undefined cid")
	}

	return id.String(), nil
}

// GatewayURL joins a public gateway base with the /ipfs/<cid> path.
func GatewayURL(gateway, id string) string {
	return strings.TrimRight(gateway, "/") + "/ipfs/" + id
}
