package clvm

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
)

// DefaultMaxCost bounds a single evaluation when no limit is configured.
const DefaultMaxCost uint64 = 11_000_000_000

// maxEvalDepth bounds nested evaluation. Cost alone admits recursion far
// deeper than the goroutine stack.
const maxEvalDepth = 1 << 16

// Runner evaluates programs against an environment (the solution). It is
// deterministic and holds no state between runs, so one Runner may be shared.
type Runner struct {
	MaxCost uint64
}

// NewRunner creates a runner with the given cost limit. Zero selects
// DefaultMaxCost.
func NewRunner(maxCost uint64) *Runner {
	if maxCost == 0 {
		maxCost = DefaultMaxCost
	}
	return &Runner{MaxCost: maxCost}
}

// Run evaluates program with env bound as its argument tree and returns the
// output and the cost consumed.
func (r *Runner) Run(program, env *Node) (*Node, uint64, error) {
	limit := r.MaxCost
	if limit == 0 {
		limit = DefaultMaxCost
	}
	e := &evaluator{limit: limit}
	out, err := e.eval(program, env)
	if err != nil {
		return nil, e.cost, err
	}
	return out, e.cost, nil
}

type evaluator struct {
	limit uint64
	cost  uint64
	depth int
}

func (e *evaluator) charge(op string, c uint64) error {
	e.cost += c
	if e.cost > e.limit {
		return &EvalError{Op: op, Err: ErrCostExceeded}
	}
	return nil
}

func (e *evaluator) eval(prog, env *Node) (*Node, error) {
	if e.depth >= maxEvalDepth {
		return nil, &EvalError{Op: "eval", Err: ErrTooDeep}
	}
	e.depth++
	defer func() { e.depth-- }()

	if prog.IsAtom() {
		return e.path(prog.atom, env)
	}

	op := prog.first
	if op.IsPair() {
		return nil, &EvalError{Op: "apply", Args: op, Err: ErrUnknownOperator}
	}
	if isOp(op, opQ) {
		if err := e.charge("q", costQuote); err != nil {
			return nil, err
		}
		return prog.rest, nil
	}

	var args []*Node
	cur := prog.rest
	for cur.IsPair() {
		v, err := e.eval(cur.first, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		cur = cur.rest
	}
	if !cur.IsNil() {
		return nil, &EvalError{Op: opName(op.atom), Err: fmt.Errorf("%w: improper argument list", ErrBadOperand)}
	}
	return e.apply(op.atom, args)
}

// path walks env following the bits of an integer atom, least significant
// first: 0 selects the first element, 1 the rest. The leading 1 bit stops.
func (e *evaluator) path(p []byte, env *Node) (*Node, error) {
	if err := e.charge("path", costPathBase+costPathPerBit*uint64(len(p))*8); err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return Nil, nil
	}
	// Skip leading zero bytes; they carry no bits.
	i := 0
	for i < len(p) && p[i] == 0 {
		i++
	}
	if i == len(p) {
		return Nil, nil
	}
	p = p[i:]
	top := 7
	for top >= 0 && p[0]&(1<<top) == 0 {
		top--
	}
	cur := env
	for byteIdx := len(p) - 1; byteIdx >= 0; byteIdx-- {
		b := p[byteIdx]
		limit := 8
		if byteIdx == 0 {
			limit = top
		}
		for bit := 0; bit < limit; bit++ {
			if cur.IsAtom() {
				return nil, &EvalError{Op: "path", Args: Atom(p), Err: ErrPathIntoAtom}
			}
			if b&(1<<bit) != 0 {
				cur = cur.rest
			} else {
				cur = cur.first
			}
		}
	}
	return cur, nil
}

func (e *evaluator) apply(op []byte, args []*Node) (*Node, error) {
	name := opName(op)
	if len(op) != 1 {
		return nil, &EvalError{Op: name, Err: ErrUnknownOperator}
	}
	fail := func(format string, a ...any) error {
		return &EvalError{Op: name, Args: List(args...), Err: fmt.Errorf("%w: "+format, append([]any{ErrBadOperand}, a...)...)}
	}
	want := func(n int) error {
		if len(args) != n {
			return fail("takes exactly %d arguments, got %d", n, len(args))
		}
		return nil
	}

	switch op[0] {
	case opA:
		if err := want(2); err != nil {
			return nil, err
		}
		if err := e.charge(name, costApply); err != nil {
			return nil, err
		}
		return e.eval(args[0], args[1])

	case opI:
		if err := want(3); err != nil {
			return nil, err
		}
		if err := e.charge(name, costIf); err != nil {
			return nil, err
		}
		if args[0].IsNil() {
			return args[2], nil
		}
		return args[1], nil

	case opC:
		if err := want(2); err != nil {
			return nil, err
		}
		if err := e.charge(name, costCons); err != nil {
			return nil, err
		}
		return Cons(args[0], args[1]), nil

	case opF, opR:
		if err := want(1); err != nil {
			return nil, err
		}
		if args[0].IsAtom() {
			return nil, fail("argument is an atom")
		}
		if op[0] == opF {
			return args[0].first, e.charge(name, costFirst)
		}
		return args[0].rest, e.charge(name, costRest)

	case opL:
		if err := want(1); err != nil {
			return nil, err
		}
		if err := e.charge(name, costListp); err != nil {
			return nil, err
		}
		return boolNode(args[0].IsPair()), nil

	case opX:
		return nil, &EvalError{Op: name, Args: List(args...), Err: ErrRaise}

	case opEq:
		if err := want(2); err != nil {
			return nil, err
		}
		a, b, err := twoAtoms(args, fail)
		if err != nil {
			return nil, err
		}
		if err := e.charge(name, costEqBase+costEqPerByte*uint64(len(a)+len(b))); err != nil {
			return nil, err
		}
		return boolNode(bytes.Equal(a, b)), nil

	case opSha256:
		atoms, total, err := allAtoms(args, fail)
		if err != nil {
			return nil, err
		}
		if err := e.charge(name, costShaBase+costShaPerArg*uint64(len(atoms))+costShaPerByte*total); err != nil {
			return nil, err
		}
		h := crypto.Sha256(atoms...)
		return e.malloc(name, h[:])

	case opStrlen:
		if err := want(1); err != nil {
			return nil, err
		}
		if args[0].IsPair() {
			return nil, fail("argument is a pair")
		}
		if err := e.charge(name, costStrlenBase+costStrlenByte*uint64(len(args[0].atom))); err != nil {
			return nil, err
		}
		return e.malloc(name, encodeBig(big.NewInt(int64(len(args[0].atom)))))

	case opConcat:
		atoms, total, err := allAtoms(args, fail)
		if err != nil {
			return nil, err
		}
		if err := e.charge(name, costConcatBase+costConcatArg*uint64(len(atoms))+costConcatByte*total); err != nil {
			return nil, err
		}
		return e.malloc(name, bytes.Join(atoms, nil))

	case opAdd, opSub:
		atoms, total, err := allAtoms(args, fail)
		if err != nil {
			return nil, err
		}
		if err := e.charge(name, costArithBase+costArithPerArg*uint64(len(atoms))+costArithByte*total); err != nil {
			return nil, err
		}
		acc := new(big.Int)
		for i, a := range atoms {
			v := decodeBig(a)
			if op[0] == opSub && i > 0 {
				acc.Sub(acc, v)
			} else {
				acc.Add(acc, v)
			}
		}
		return e.malloc(name, encodeBig(acc))

	case opGr:
		if err := want(2); err != nil {
			return nil, err
		}
		a, b, err := twoAtoms(args, fail)
		if err != nil {
			return nil, err
		}
		if err := e.charge(name, costGrBase+costGrPerByte*uint64(len(a)+len(b))); err != nil {
			return nil, err
		}
		return boolNode(decodeBig(a).Cmp(decodeBig(b)) > 0), nil

	case opNot:
		if err := want(1); err != nil {
			return nil, err
		}
		if err := e.charge(name, costBoolBase+costBoolPerArg); err != nil {
			return nil, err
		}
		return boolNode(args[0].IsNil()), nil

	case opAny, opAll:
		if err := e.charge(name, costBoolBase+costBoolPerArg*uint64(len(args))); err != nil {
			return nil, err
		}
		all := op[0] == opAll
		for _, a := range args {
			if a.IsNil() == all {
				return boolNode(!all), nil
			}
		}
		return boolNode(all), nil
	}

	return nil, &EvalError{Op: name, Err: ErrUnknownOperator}
}

func (e *evaluator) malloc(op string, b []byte) (*Node, error) {
	if err := e.charge(op, costMallocByte*uint64(len(b))); err != nil {
		return nil, err
	}
	return Atom(b), nil
}

func boolNode(v bool) *Node {
	if v {
		return envAtom
	}
	return Nil
}

func twoAtoms(args []*Node, fail func(string, ...any) error) ([]byte, []byte, error) {
	if args[0].IsPair() || args[1].IsPair() {
		return nil, nil, fail("arguments must be atoms")
	}
	return args[0].atom, args[1].atom, nil
}

func allAtoms(args []*Node, fail func(string, ...any) error) ([][]byte, uint64, error) {
	out := make([][]byte, len(args))
	var total uint64
	for i, a := range args {
		if a.IsPair() {
			return nil, 0, fail("argument %d is a pair", i)
		}
		out[i] = a.atom
		total += uint64(len(a.atom))
	}
	return out, total, nil
}
