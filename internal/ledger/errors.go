package ledger

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Validation errors.
var (
	ErrCoinNotFound        = errors.New("coin not found")
	ErrCoinSpent           = errors.New("coin already spent")
	ErrDuplicateSpend      = errors.New("coin spent twice in bundle")
	ErrDuplicateOutput     = errors.New("coin created twice")
	ErrPuzzleHashMismatch  = errors.New("puzzle reveal does not match coin puzzle hash")
	ErrBundleApplied       = errors.New("bundle already applied")
	ErrEmptyBundle         = errors.New("empty bundle")
	ErrUnexpectedTail      = errors.New("tail revealed outside a dog spend")
	ErrTailMismatch        = errors.New("tail does not hash to the asset id")
	ErrMultipleTails       = errors.New("tail revealed more than once")
	ErrLineage             = errors.New("lineage proof does not match parent")
	ErrRingLinkage         = errors.New("ring linkage mismatch")
	ErrSubtotal            = errors.New("prev subtotal mismatch")
	ErrSupplyChanged       = errors.New("ring does not conserve supply")
	ErrOutputsExceedInputs = errors.New("bundle outputs exceed inputs")
	ErrExtraDelta          = errors.New("extra delta without tail")
	ErrIssuance            = errors.New("eve spend must issue its declared amount")
	ErrAnnouncement        = errors.New("asserted announcement not created")
	ErrMyCoinID            = errors.New("asserted coin id mismatch")
	ErrSignature           = errors.New("missing or invalid signature")
)

// SpendError reports which coin spend of a bundle failed validation.
type SpendError struct {
	CoinID types.Hash
	Err    error
}

func (e *SpendError) Error() string {
	return fmt.Sprintf("spend %s: %v", e.CoinID, e.Err)
}

func (e *SpendError) Unwrap() error { return e.Err }

func spendErr(id types.Hash, err error) error {
	return &SpendError{CoinID: id, Err: err}
}
