package ledger

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/condition"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Requirement is one signature a bundle needs: PublicKey over Digest.
type Requirement struct {
	CoinID    types.Hash
	PublicKey []byte
	Digest    types.Hash
}

// SigningDigest returns the digest an AGG_SIG condition emitted by coinID
// commits to. AGG_SIG_ME binds the message to the coin and the network's
// extra data; AGG_SIG_UNSAFE signs the message alone.
func SigningDigest(c condition.AggSig, coinID types.Hash, aggSigMeData []byte) types.Hash {
	if c.Kind == condition.OpAggSigMe {
		return crypto.Sha256(c.Message, coinID[:], aggSigMeData)
	}
	return crypto.Sha256(c.Message)
}

// Requirements lists the signatures results need, in bundle order.
func Requirements(results []Result, aggSigMeData []byte) []Requirement {
	var reqs []Requirement
	for _, r := range results {
		for _, c := range r.Conditions {
			sig, ok := c.(condition.AggSig)
			if !ok {
				continue
			}
			reqs = append(reqs, Requirement{
				CoinID:    r.CoinID,
				PublicKey: sig.PublicKey,
				Digest:    SigningDigest(sig, r.CoinID, aggSigMeData),
			})
		}
	}
	return reqs
}

// verifySignatures checks that every requirement is met by some signature
// in sigs. Signature order is free.
func verifySignatures(reqs []Requirement, sigs [][]byte) error {
	for _, req := range reqs {
		found := false
		for _, sig := range sigs {
			if crypto.VerifySignature(req.Digest[:], sig, req.PublicKey) {
				found = true
				break
			}
		}
		if !found {
			return spendErr(req.CoinID, fmt.Errorf("%w: key %x", ErrSignature, req.PublicKey))
		}
	}
	return nil
}

// Signer produces the signatures a bundle's conditions require.
type Signer struct {
	runner       *clvm.Runner
	aggSigMeData []byte
}

// NewSigner creates a signer that computes digests with aggSigMeData.
func NewSigner(runner *clvm.Runner, aggSigMeData []byte) *Signer {
	return &Signer{runner: runner, aggSigMeData: aggSigMeData}
}

// Sign runs b, signs every requirement with the matching key and appends
// the signatures to b. It fails if a required key is not among keys.
func (s *Signer) Sign(b *spend.Bundle, keys ...*crypto.PrivateKey) error {
	results, err := Evaluate(s.runner, b)
	if err != nil {
		return err
	}
	byKey := make(map[string]*crypto.PrivateKey, len(keys))
	for _, k := range keys {
		byKey[string(k.PublicKey())] = k
	}
	for _, req := range Requirements(results, s.aggSigMeData) {
		key, ok := byKey[string(req.PublicKey)]
		if !ok {
			return spendErr(req.CoinID, fmt.Errorf("%w: no key for %x", ErrSignature, req.PublicKey))
		}
		sig, err := key.Sign(req.Digest[:])
		if err != nil {
			return err
		}
		b.Signatures = append(b.Signatures, sig)
	}
	return nil
}
