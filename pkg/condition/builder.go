package condition

import (
	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// List accumulates conditions for an inner puzzle to emit.
type List struct {
	conds []Condition
}

// New creates an empty condition list.
func New() *List {
	return &List{}
}

// Add appends arbitrary conditions.
func (l *List) Add(conds ...Condition) *List {
	l.conds = append(l.conds, conds...)
	return l
}

// CreateCoin appends a CREATE_COIN.
func (l *List) CreateCoin(puzzleHash types.Hash, amount uint64, memos ...[]byte) *List {
	return l.Add(CreateCoin{PuzzleHash: puzzleHash, Amount: amount, Memos: memos})
}

// RunTail appends the issuance program reveal.
func (l *List) RunTail(program, solution *clvm.Node) *List {
	if solution == nil {
		solution = clvm.Nil
	}
	return l.Add(RunTail{Program: program, Solution: solution})
}

// AggSigMe appends a coin-bound signature requirement.
func (l *List) AggSigMe(publicKey, message []byte) *List {
	return l.Add(AggSig{Kind: OpAggSigMe, PublicKey: publicKey, Message: message})
}

// AggSigUnsafe appends a signature requirement on the bare message.
func (l *List) AggSigUnsafe(publicKey, message []byte) *List {
	return l.Add(AggSig{Kind: OpAggSigUnsafe, PublicKey: publicKey, Message: message})
}

// Remark appends a no-op remark carrying data.
func (l *List) Remark(data ...*clvm.Node) *List {
	return l.Add(Remark{Rest: clvm.List(data...)})
}

// CreateCoinAnnouncement appends an announcement.
func (l *List) CreateCoinAnnouncement(message []byte) *List {
	return l.Add(CreateCoinAnnouncement{Message: message})
}

// AssertCoinAnnouncement appends an announcement assertion.
func (l *List) AssertCoinAnnouncement(id types.Hash) *List {
	return l.Add(AssertCoinAnnouncement{ID: id})
}

// AssertMyCoinID appends a coin id assertion.
func (l *List) AssertMyCoinID(coinID types.Hash) *List {
	return l.Add(AssertMyCoinID{CoinID: coinID})
}

// Extend appends every condition of other.
func (l *List) Extend(other *List) *List {
	if other == nil {
		return l
	}
	return l.Add(other.conds...)
}

// Conditions returns a copy of the accumulated conditions.
func (l *List) Conditions() []Condition {
	out := make([]Condition, len(l.conds))
	copy(out, l.conds)
	return out
}

// Len returns the number of conditions.
func (l *List) Len() int {
	return len(l.conds)
}

// Node encodes the list.
func (l *List) Node() *clvm.Node {
	return Encode(l.conds)
}
