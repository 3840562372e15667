package puzzle

import (
	"encoding/hex"

	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Well-known programs. Each serialized blob is paired with its tree hash;
// layers identify programs by hash and never look inside the blobs.
var (
	// DogPuzzle is the supply-restriction outer puzzle.
	DogPuzzle     = mustHex(dogPuzzleHex)
	DogPuzzleHash = mustHash("cbdf86d15fada4046eebe75967646933389e1414955cf60fb436578cdc1145b2")

	// DogLauncher is the per-asset launcher used by the two-coin profile.
	DogLauncher     = mustHex(dogLauncherHex)
	DogLauncherHash = mustHash("cd4d3dd1d1b9a30ac5b1b443795c6070b5fc36b9599bf21a153995db7731d57b")

	// OwnerPuzzle requires a signature over the tree hash of the
	// conditions passed in its solution, then emits those conditions.
	OwnerPuzzle     = mustHex(ownerPuzzleHex)
	OwnerPuzzleHash = mustHash("3e7229cf49c19828704e6515a377d36abb67285790689bd53ae4dd383110ffae")

	// GenesisByCoinIDTail authorizes issuance only from one parent coin and
	// only for an eve spend.
	GenesisByCoinIDTail     = mustHex(genesisTailHex)
	GenesisByCoinIDTailHash = mustHash("e3788c72eea6848caf7244e1acaf78eb0cccd69f22a82b11eaaeb92ef593cd14")

	// EverythingWithSignatureTail authorizes any supply change signed by
	// one key.
	EverythingWithSignatureTail     = mustHex(signatureTailHex)
	EverythingWithSignatureTailHash = mustHash("ec8f0a85a7f54cd24123be6bf0f682c40bcd74cf3c274777c8d1909ac5d2fb07")
)

const (
	ownerPuzzleHex = "ff04ffff04ffff0132ffff04ff02ffff04ffff02ffff01ff02ffff03ffff07ff0580ffff01ff0bffff0102ffff02ff02" +
		"ffff04ff02ffff04ffff05ff0580ff80808080ffff02ff02ffff04ff02ffff04ffff06ff0580ff8080808080ffff01ff" +
		"0bffff0101ff058080ff0180ffff04ffff01ff02ffff03ffff07ff0580ffff01ff0bffff0102ffff02ff02ffff04ff02" +
		"ffff04ffff05ff0580ff80808080ffff02ff02ffff04ff02ffff04ffff06ff0580ff8080808080ffff01ff0bffff0101" +
		"ff058080ff0180ffff04ff05ff80808080ff80808080ff0580"

	genesisTailHex = "ff02ffff03ffff09ff02ff0580ffff01ff02ffff03ff0bffff01ff08ffff01876c696e6561676580ffff01ff018080ff" +
		"0180ffff01ff08ffff018767656e657369738080ff0180"

	signatureTailHex = "ff04ffff04ffff0132ffff04ff02ffff04ff17ff80808080ff8080"

	dogPuzzleHex = "ff02ffff01ff04ffff04ff14ffff04ffff0114ffff04ff820bffffff04ffff02ff16ffff04ff02ffff04ff0bffff04ff" +
		"ff0bffff0101ff0b80ffff04ffff0bffff0101ff0580ffff04ffff0bffff0101ff6f80ffff04ffff0bffff0101ff4f80" +
		"ff8080808080808080ff8080808080ffff04ffff04ff2cffff04ffff013fffff04ffff0eff10ffff0bff81bf8080ffff" +
		"04ffff30ff8209ffffff02ff16ffff04ff02ffff04ff05ffff04ffff0bffff0101ff0580ffff04ffff0bffff0101ff0b" +
		"80ffff04ff8215ffff80808080808080ff822dff80ff8080808080ffff04ffff04ff14ffff04ffff013fffff04ffff0e" +
		"ff10ffff0bff82017f8080ffff04ff8202ffff8080808080ffff02ff3effff04ff02ffff04ff05ffff04ff0bffff04ff" +
		"ff02ff17ff5f80ffff04ffff11ffff10ff820bffff82017f80ff81bf80ff80808080808080808080ffff04ffff01ffff" +
		"ff81d033ff43ff4202ffffff02ffff03ff05ffff01ff0bff81eaffff02ff2effff04ff02ffff04ff09ffff04ffff02ff" +
		"12ffff04ff02ffff04ff0dff80808080ff808080808080ffff0181ca80ff0180ffffffa04bf5122f344554c53bde2ebb" +
		"8cd2b7e3d1600ad631c385a5d7cce23c7785459aa09dcf97a184f32623d11a73124ceb99a5709b083721e878a16d78f5" +
		"96718ba7b2ffa102a12871fee210fb8619291eaea194581cbd2531e4b23759d225f6806923f63222a102a8d5dd63fba4" +
		"71ebcb1f3e8f7c1e1879b7152a6e7298a91ce119a63400ade7c5ff04ff18ffff04ffff02ff16ffff04ff02ffff04ff0b" +
		"ffff04ffff0bffff0101ff0b80ffff04ffff0bffff0101ff0580ffff04ffff0bffff0101ff5780ffff04ffff0bffff01" +
		"01ff2780ff8080808080808080ffff04ff80ff77808080ffff0bff81aaffff02ff2effff04ff02ffff04ff05ffff04ff" +
		"ff02ff12ffff04ff02ffff04ff07ff80808080ff808080808080ffff0bff3cffff0bff3cff81caff0580ffff0bff3cff" +
		"0bff818a8080ff02ffff03ff17ffff01ff02ffff03ffff09ff47ff1880ffff01ff04ffff02ff3affff04ff02ffff04ff" +
		"05ffff04ff0bffff04ff67ff808080808080ffff02ff3effff04ff02ffff04ff05ffff04ff0bffff04ff37ffff04ffff" +
		"11ff2fff82016780ff8080808080808080ffff01ff02ffff03ffff22ffff21ffff09ff47ff1480ffff09ff47ff2c8080" +
		"ffff09ff81a7ffff013f80ffff09ffff0dff82016780ffff012180ffff09ffff0cff820167ff80ffff010180ff108080" +
		"ffff01ff08ffff018378797a80ffff01ff04ff27ffff02ff3effff04ff02ffff04ff05ffff04ff0bffff04ff37ffff04" +
		"ff2fff808080808080808080ff018080ff0180ffff01ff02ffff03ffff09ff2fff8080ff80ffff01ff08ffff01836162" +
		"638080ff018080ff0180ff018080"

	dogLauncherHex = "ff02ffff01ff04ffff04ff14ffff04ffff0bff56ffff0bff12ffff0bff12ff66ff1780ffff0bff12ffff0bff76ffff0b" +
		"ff12ffff0bff12ff66ffff0bffff0101ff178080ffff0bff12ffff0bff76ffff0bff12ffff0bff12ff66ffff0bffff01" +
		"01ff0b8080ffff0bff12ffff0bff76ffff0bff12ffff0bff12ff66ff5f80ffff0bff12ff66ff46808080ff46808080ff" +
		"46808080ff46808080ffff04ffff10ff2fffff02ffff03ff81bfffff0182013fff8080ff018080ff80808080ffff04ff" +
		"ff04ff10ffff04ff8202ffff808080ffff04ffff04ff3cffff04ffff0114ffff04ffff10ff2fffff02ffff03ff81bfff" +
		"ff0182013fff8080ff018080ffff04ff8202ffff8080808080ffff04ffff02ffff03ffff22ffff09ff2fff8080ff81bf" +
		"80ffff01ff04ff2cff8080ffff01ff04ff18ffff04ffff30ff82027fffff02ff2effff04ff02ffff04ff17ffff04ffff" +
		"0bffff0101ff1780ffff04ffff0bffff0101ff0b80ffff04ff82057fff80808080808080ff820b7f80ff80808080ff01" +
		"80ffff02ffff03ff81bfffff01ff02ff8202bfffff04ffff04ff05ffff04ff0bffff04ff17ffff04ff2fffff04ff5fff" +
		"ff04ff82013fffff04ff8202ffff8080808080808080ff8203bf8080ff8080ff018080808080ffff04ffff01ffffff46" +
		"47ff33ff0142ffff02ff02ffff03ff05ffff01ff0bff76ffff02ff3effff04ff02ffff04ff09ffff04ffff02ff1affff" +
		"04ff02ffff04ff0dff80808080ff808080808080ffff016680ff0180ffffffa04bf5122f344554c53bde2ebb8cd2b7e3" +
		"d1600ad631c385a5d7cce23c7785459aa09dcf97a184f32623d11a73124ceb99a5709b083721e878a16d78f596718ba7" +
		"b2ffa102a12871fee210fb8619291eaea194581cbd2531e4b23759d225f6806923f63222a102a8d5dd63fba471ebcb1f" +
		"3e8f7c1e1879b7152a6e7298a91ce119a63400ade7c5ffff0bff56ffff02ff3effff04ff02ffff04ff05ffff04ffff02" +
		"ff1affff04ff02ffff04ff07ff80808080ff808080808080ff0bff12ffff0bff12ff66ff0580ffff0bff12ff0bff4680" +
		"80ff018080"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func mustHash(s string) types.Hash {
	h, err := types.HexToHash(s)
	if err != nil {
		panic(err)
	}
	return h
}
