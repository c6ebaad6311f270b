package chainrepo

import (
	"context"
	"math/big"
)

// Repo talks to the supported networks' JSON-RPC nodes. Only three reads are
// needed: the token contract's decimals (fetched, never assumed), an ERC-20
// balance, and a transfer receipt lookup.
type Repo interface {
	TokenDecimals(ctx context.Context, chain string) (int, error)
	BalanceOf(ctx context.Context, chain, wallet string) (*big.Int, error)
	// TransferConfirmed reports whether the transaction is mined, succeeded,
	// and was addressed to the chain's stablecoin contract.
	TransferConfirmed(ctx context.Context, chain, txHash string) (bool, error)
}
