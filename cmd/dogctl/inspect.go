package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/klingnet-dog/internal/dog"
	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/puzzle"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

func newAssetIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset-id",
		Short: "Derive the asset id of a standard TAIL",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "genesis <coin-id>",
			Short: "Asset id of a single-issuance token minted from coin-id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := types.HexToHash(args[0])
				if err != nil {
					return fmt.Errorf("coin id: %w", err)
				}
				printf(cmd.OutOrStdout(), "%s\n", puzzle.GenesisByCoinIDAssetID(id))
				return nil
			},
		},
		&cobra.Command{
			Use:   "signature <public-key>",
			Short: "Asset id of a multi-issuance token governed by public-key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				pk, err := decodeHex(args[0])
				if err != nil {
					return fmt.Errorf("public key: %w", err)
				}
				if err := crypto.ValidatePublicKey(pk); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s\n", puzzle.EverythingWithSignatureAssetID(pk))
				return nil
			},
		},
	)
	return cmd
}

func newPuzzleHashCmd() *cobra.Command {
	var asset, inner, amount string
	cmd := &cobra.Command{
		Use:   "puzzle-hash",
		Short: "Outer puzzle hash of a DOG coin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := types.HexToHash(asset)
			if err != nil {
				return fmt.Errorf("asset: %w", err)
			}
			innerHash, err := types.HexToHash(inner)
			if err != nil {
				return fmt.Errorf("inner: %w", err)
			}
			amt, err := types.ParseAmount(amount)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", puzzle.DogTreeHash(&amt, types.AssetID(assetID), innerHash))
			return nil
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "Asset id (hex)")
	cmd.Flags().StringVar(&inner, "inner", "", "Inner puzzle hash (hex)")
	cmd.Flags().StringVar(&amount, "amount", "0", "Declared amount")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("inner")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <puzzle-hex>",
		Short: "Parse a serialized puzzle as a DOG layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := clvm.FromHex(args[0])
			if err != nil {
				return err
			}
			layer, ok, err := puzzle.ParseRawDogLayer(prog)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !ok {
				printf(w, "not a DOG puzzle (tree hash %s)\n", clvm.TreeHash(prog))
				return nil
			}
			printf(w, "puzzle hash:  %s\n", layer.TreeHash())
			printf(w, "asset id:     %s\n", layer.AssetID)
			printf(w, "amount:       %s\n", types.FormatAmount(&layer.Amount))
			printf(w, "inner hash:   %s\n", layer.Inner.TreeHash())
			if owner, ok, _ := puzzle.ParseOwnerLayer(layer.Inner.Program); ok {
				printf(w, "owner key:    %x\n", owner.PublicKey)
			}
			return nil
		},
	}
}

func newChildrenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "children <bundle-file>",
		Short: "List the DOG coins created by each spend of an encoded bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			b, err := spend.DecodeBundle(data)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			runner := a.runner()
			for _, cs := range b.CoinSpends {
				children, ok, err := dog.ParseCoinSpendChildren(runner, cs)
				if err != nil {
					return fmt.Errorf("spend %s: %w", cs.Coin.ID(), err)
				}
				if !ok {
					continue
				}
				printf(w, "%s\n", cs.Coin)
				for _, c := range children {
					printf(w, "  %s asset=%s p2=%s\n", c.Coin, c.AssetID, c.P2PuzzleHash)
				}
			}
			return nil
		},
	}
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}
