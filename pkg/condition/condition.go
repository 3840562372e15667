// Package condition decodes and encodes the effects ("conditions") a puzzle
// emits when it is run.
package condition

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Opcode identifies a condition.
type Opcode int64

// Condition opcodes.
const (
	OpRemark                 Opcode = 1
	OpAggSigUnsafe           Opcode = 49
	OpAggSigMe               Opcode = 50
	OpCreateCoin             Opcode = 51
	OpCreateCoinAnnouncement Opcode = 60
	OpAssertCoinAnnouncement Opcode = 61
	OpAssertMyCoinID         Opcode = 70
)

// RunTailAmount marks a CREATE_COIN with an empty puzzle hash as a request
// to run the token's issuance program.
const RunTailAmount = -113

// ErrMalformed is returned for condition lists that do not decode.
var ErrMalformed = errors.New("malformed condition")

// Condition is one decoded effect.
type Condition interface {
	Opcode() Opcode
	Node() *clvm.Node
}

// CreateCoin creates a child coin of the spent coin.
type CreateCoin struct {
	PuzzleHash types.Hash
	Amount     uint64
	Memos      [][]byte
}

// RunTail reveals the issuance program (TAIL) and its solution. It is
// carried on the wire as (51 () -113 tail solution).
type RunTail struct {
	Program  *clvm.Node
	Solution *clvm.Node
}

// AggSig requires a signature by PublicKey. For OpAggSigMe the signed digest
// also commits to the spent coin id and the network's extra data.
type AggSig struct {
	Kind      Opcode
	PublicKey []byte
	Message   []byte
}

// Remark carries arbitrary data and has no effect.
type Remark struct {
	Rest *clvm.Node
}

// CreateCoinAnnouncement announces Message from the spent coin.
type CreateCoinAnnouncement struct {
	Message []byte
}

// AssertCoinAnnouncement requires an announcement with the given id to be
// made in the same bundle.
type AssertCoinAnnouncement struct {
	ID types.Hash
}

// AssertMyCoinID requires the spent coin to have the given id.
type AssertMyCoinID struct {
	CoinID types.Hash
}

// Unknown is a condition with an unrecognized opcode. It is kept verbatim.
type Unknown struct {
	Raw *clvm.Node
	Op  Opcode
}

func (CreateCoin) Opcode() Opcode             { return OpCreateCoin }
func (RunTail) Opcode() Opcode                { return OpCreateCoin }
func (c AggSig) Opcode() Opcode               { return c.Kind }
func (Remark) Opcode() Opcode                 { return OpRemark }
func (CreateCoinAnnouncement) Opcode() Opcode { return OpCreateCoinAnnouncement }
func (AssertCoinAnnouncement) Opcode() Opcode { return OpAssertCoinAnnouncement }
func (AssertMyCoinID) Opcode() Opcode         { return OpAssertMyCoinID }
func (u Unknown) Opcode() Opcode              { return u.Op }

func opAtom(op Opcode) *clvm.Node { return clvm.Int(int64(op)) }

// Node encodes the condition. Memos are only emitted when present.
func (c CreateCoin) Node() *clvm.Node {
	items := []*clvm.Node{opAtom(OpCreateCoin), clvm.Bytes32(c.PuzzleHash), clvm.Uint64(c.Amount)}
	if len(c.Memos) > 0 {
		memos := make([]*clvm.Node, len(c.Memos))
		for i, m := range c.Memos {
			memos[i] = clvm.Atom(m)
		}
		items = append(items, clvm.List(memos...))
	}
	return clvm.List(items...)
}

func (c RunTail) Node() *clvm.Node {
	return clvm.List(opAtom(OpCreateCoin), clvm.Nil, clvm.Int(RunTailAmount), c.Program, c.Solution)
}

func (c AggSig) Node() *clvm.Node {
	return clvm.List(opAtom(c.Kind), clvm.Atom(c.PublicKey), clvm.Atom(c.Message))
}

func (c Remark) Node() *clvm.Node {
	return clvm.Cons(opAtom(OpRemark), c.Rest)
}

func (c CreateCoinAnnouncement) Node() *clvm.Node {
	return clvm.List(opAtom(OpCreateCoinAnnouncement), clvm.Atom(c.Message))
}

func (c AssertCoinAnnouncement) Node() *clvm.Node {
	return clvm.List(opAtom(OpAssertCoinAnnouncement), clvm.Bytes32(c.ID))
}

func (c AssertMyCoinID) Node() *clvm.Node {
	return clvm.List(opAtom(OpAssertMyCoinID), clvm.Bytes32(c.CoinID))
}

func (u Unknown) Node() *clvm.Node { return u.Raw }

// AnnouncementID returns the id under which coinID's announcement of msg is
// asserted: sha256(coin_id || msg).
func AnnouncementID(coinID types.Hash, msg []byte) types.Hash {
	return crypto.Sha256(coinID[:], msg)
}

// Decode parses a puzzle output into typed conditions.
func Decode(output *clvm.Node) ([]Condition, error) {
	items, err := output.Items()
	if err != nil {
		return nil, fmt.Errorf("%w: output is not a list", ErrMalformed)
	}
	out := make([]Condition, 0, len(items))
	for i, item := range items {
		c, err := decodeOne(item)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeOne(n *clvm.Node) (Condition, error) {
	if n.IsAtom() {
		return nil, fmt.Errorf("%w: condition is an atom", ErrMalformed)
	}
	rawOp, err := n.First().AsInt64()
	if err != nil {
		return nil, fmt.Errorf("%w: opcode: %v", ErrMalformed, err)
	}
	op := Opcode(rawOp)
	if op == OpRemark {
		return Remark{Rest: n.Rest()}, nil
	}

	args, err := n.Rest().Items()
	if err != nil {
		// Only the opcodes we interpret need a proper argument list.
		switch op {
		case OpAggSigUnsafe, OpAggSigMe, OpCreateCoin, OpCreateCoinAnnouncement,
			OpAssertCoinAnnouncement, OpAssertMyCoinID:
			return nil, fmt.Errorf("%w: opcode %d: %v", ErrMalformed, op, err)
		}
		return Unknown{Raw: n, Op: op}, nil
	}
	need := func(k int) error {
		if len(args) < k {
			return fmt.Errorf("%w: opcode %d needs %d arguments, got %d", ErrMalformed, op, k, len(args))
		}
		return nil
	}
	hashArg := func(i int) (types.Hash, error) {
		h, err := args[i].AsHash()
		if err != nil {
			return types.Hash{}, fmt.Errorf("%w: opcode %d: %v", ErrMalformed, op, err)
		}
		return h, nil
	}
	atomArg := func(i int) ([]byte, error) {
		if args[i].IsPair() {
			return nil, fmt.Errorf("%w: opcode %d argument %d is a pair", ErrMalformed, op, i)
		}
		return args[i].Atom(), nil
	}

	switch op {
	case OpCreateCoin:
		if err := need(2); err != nil {
			return nil, err
		}
		if args[0].IsNil() {
			return decodeRunTail(args)
		}
		return decodeCreateCoin(args)

	case OpAggSigUnsafe, OpAggSigMe:
		if err := need(2); err != nil {
			return nil, err
		}
		pk, err := atomArg(0)
		if err != nil {
			return nil, err
		}
		msg, err := atomArg(1)
		if err != nil {
			return nil, err
		}
		return AggSig{Kind: op, PublicKey: pk, Message: msg}, nil

	case OpCreateCoinAnnouncement:
		if err := need(1); err != nil {
			return nil, err
		}
		msg, err := atomArg(0)
		if err != nil {
			return nil, err
		}
		return CreateCoinAnnouncement{Message: msg}, nil

	case OpAssertCoinAnnouncement:
		if err := need(1); err != nil {
			return nil, err
		}
		id, err := hashArg(0)
		if err != nil {
			return nil, err
		}
		return AssertCoinAnnouncement{ID: id}, nil

	case OpAssertMyCoinID:
		if err := need(1); err != nil {
			return nil, err
		}
		id, err := hashArg(0)
		if err != nil {
			return nil, err
		}
		return AssertMyCoinID{CoinID: id}, nil
	}
	return Unknown{Raw: n, Op: op}, nil
}

func decodeRunTail(args []*clvm.Node) (Condition, error) {
	amount, err := args[1].AsInt64()
	if err != nil || amount != RunTailAmount {
		return nil, fmt.Errorf("%w: create coin with empty puzzle hash", ErrMalformed)
	}
	if len(args) < 4 {
		return nil, fmt.Errorf("%w: run tail needs program and solution", ErrMalformed)
	}
	return RunTail{Program: args[2], Solution: args[3]}, nil
}

func decodeCreateCoin(args []*clvm.Node) (Condition, error) {
	ph, err := args[0].AsHash()
	if err != nil {
		return nil, fmt.Errorf("%w: create coin puzzle hash: %v", ErrMalformed, err)
	}
	amount, err := args[1].AsUint64()
	if err != nil {
		return nil, fmt.Errorf("%w: create coin amount: %v", ErrMalformed, err)
	}
	cc := CreateCoin{PuzzleHash: ph, Amount: amount}
	if len(args) > 2 && args[2].IsPair() {
		memos, err := args[2].Items()
		if err != nil {
			return nil, fmt.Errorf("%w: create coin memos: %v", ErrMalformed, err)
		}
		for _, m := range memos {
			if m.IsPair() {
				return nil, fmt.Errorf("%w: create coin memo is a pair", ErrMalformed)
			}
			cc.Memos = append(cc.Memos, m.Atom())
		}
	}
	return cc, nil
}

// CreateCoins filters the CREATE_COIN conditions out of conds.
func CreateCoins(conds []Condition) []CreateCoin {
	var out []CreateCoin
	for _, c := range conds {
		if cc, ok := c.(CreateCoin); ok {
			out = append(out, cc)
		}
	}
	return out
}

// Encode builds the list node for a slice of conditions.
func Encode(conds []Condition) *clvm.Node {
	items := make([]*clvm.Node, len(conds))
	for i, c := range conds {
		items[i] = c.Node()
	}
	return clvm.List(items...)
}
