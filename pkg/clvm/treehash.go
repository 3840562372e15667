package clvm

import (
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// HashAtom returns the structural hash of an atom: sha256(0x01 || bytes).
func HashAtom(b []byte) types.Hash {
	return crypto.Sha256([]byte{1}, b)
}

// HashPair returns the structural hash of a pair: sha256(0x02 || hl || hr).
func HashPair(left, right types.Hash) types.Hash {
	return crypto.Sha256([]byte{2}, left[:], right[:])
}

// TreeHash computes the structural hash of a program tree.
func TreeHash(n *Node) types.Hash {
	if n.IsAtom() {
		return HashAtom(n.atom)
	}
	return HashPair(TreeHash(n.first), TreeHash(n.rest))
}

var (
	nilHash   = HashAtom(nil)
	quoteHash = HashAtom([]byte{opQ})
	applyHash = HashAtom([]byte{opA})
	consHash  = HashAtom([]byte{opC})
	// The environment atom 1 and the quote operator share an encoding.
	oneHash = quoteHash
)

// CurryTreeHash returns the tree hash of Curry(mod, args...) given only the
// hash of mod and the hashes of each argument, in curry order.
func CurryTreeHash(modHash types.Hash, argHashes ...types.Hash) types.Hash {
	env := oneHash
	for i := len(argHashes) - 1; i >= 0; i-- {
		quoted := HashPair(quoteHash, argHashes[i])
		env = HashPair(consHash, HashPair(quoted, HashPair(env, nilHash)))
	}
	quotedMod := HashPair(quoteHash, modHash)
	return HashPair(applyHash, HashPair(quotedMod, HashPair(env, nilHash)))
}
