// Package puzzle implements composable puzzle layers: an opaque raw layer,
// the key-gated owner layer and the DOG supply-restriction layer that wraps
// any other layer.
package puzzle

import (
	"errors"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Layer errors.
var (
	// ErrInvalidModHash is returned when a program has a layer's shape but
	// its embedded self-reference hash is wrong.
	ErrInvalidModHash = errors.New("invalid mod hash")
	// ErrInvalidArgs is returned when a recognized layer's curried arguments
	// do not decode.
	ErrInvalidArgs = errors.New("invalid curried arguments")
	// ErrInvalidSolution is returned for solutions without the expected shape.
	ErrInvalidSolution = errors.New("invalid solution")
)

// Layer is one level of a composed puzzle. S is its decoded solution type.
// ConstructPuzzle and ConstructSolution are the inverses of the layer's
// parse functions, and TreeHash equals the tree hash of ConstructPuzzle's
// output without building it.
type Layer[S any] interface {
	ConstructPuzzle(ctx *spend.Context) (*clvm.Node, error)
	ConstructSolution(ctx *spend.Context, sol S) (*clvm.Node, error)
	TreeHash() types.Hash
}

// PuzzleParser recognizes a program as a layer. It returns ok=false, and no
// error, when the program does not have the layer's shape.
type PuzzleParser[L any] func(prog *clvm.Node) (layer L, ok bool, err error)

// SolutionParser decodes a layer's solution.
type SolutionParser[S any] func(sol *clvm.Node) (S, error)

// RawLayer is an opaque program. It accepts every program and solution.
type RawLayer struct {
	Program *clvm.Node
}

// NewRawLayer wraps prog.
func NewRawLayer(prog *clvm.Node) RawLayer {
	return RawLayer{Program: prog}
}

// ParseRawLayer always recognizes prog.
func ParseRawLayer(prog *clvm.Node) (RawLayer, bool, error) {
	return RawLayer{Program: prog}, true, nil
}

// ParseRawSolution returns sol unchanged.
func ParseRawSolution(sol *clvm.Node) (*clvm.Node, error) {
	return sol, nil
}

func (l RawLayer) ConstructPuzzle(*spend.Context) (*clvm.Node, error) {
	return l.Program, nil
}

func (l RawLayer) ConstructSolution(_ *spend.Context, sol *clvm.Node) (*clvm.Node, error) {
	if sol == nil {
		return clvm.Nil, nil
	}
	return sol, nil
}

func (l RawLayer) TreeHash() types.Hash {
	return clvm.TreeHash(l.Program)
}
