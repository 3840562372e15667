// dogctl derives DOG token identifiers, inspects DOG puzzles and spends,
// and drives tokens against a local ledger.
//
// Usage:
//
//	dogctl asset-id genesis <coin-id>      Single-issuance asset id
//	dogctl asset-id signature <pubkey>     Multi-issuance asset id
//	dogctl puzzle-hash --asset ... --inner ... --amount ...
//	dogctl inspect <puzzle-hex>            Parse a DOG puzzle
//	dogctl children <bundle-file>          Children of every DOG spend
//	dogctl demo                            Issue, ring-spend and melt
//	dogctl config init                     Write the default config
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
