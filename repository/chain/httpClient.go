package chainrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/InkaFilipinka/scooter-website-sub000/config"
	"github.com/InkaFilipinka/scooter-website-sub000/util/httpx"
)

// ERC-20 selectors.
const (
	selDecimals  = "0x313ce567"
	selBalanceOf = "0x70a08231"
)

type httpRepo struct {
	chains map[string]config.Chain
	client *http.Client
	nextID atomic.Int64
}

func NewHTTP(chains map[string]config.Chain) Repo {
	return &httpRepo{chains: chains, client: httpx.Client()}
}

func (r *httpRepo) TokenDecimals(ctx context.Context, chain string) (int, error) {
	c, ok := r.chains[chain]
	if !ok {
		return 0, fmt.Errorf("chain %q not supported", chain)
	}
	out, err := r.ethCall(ctx, c, c.TokenContract, selDecimals)
	if err != nil {
		return 0, err
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(out, "0x"), 16)
	if !ok || !n.IsInt64() {
		return 0, fmt.Errorf("chain %s: bad decimals result %q", chain, out)
	}
	return int(n.Int64()), nil
}

func (r *httpRepo) BalanceOf(ctx context.Context, chain, wallet string) (*big.Int, error) {
	c, ok := r.chains[chain]
	if !ok {
		return nil, fmt.Errorf("chain %q not supported", chain)
	}
	addr := strings.TrimPrefix(strings.ToLower(wallet), "0x")
	if len(addr) != 40 {
		return nil, fmt.Errorf("bad wallet address %q", wallet)
	}
	data := selBalanceOf + strings.Repeat("0", 24) + addr
	out, err := r.ethCall(ctx, c, c.TokenContract, data)
	if err != nil {
		return nil, err
	}
	bal, ok := new(big.Int).SetString(strings.TrimPrefix(out, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("chain %s: bad balance result %q", chain, out)
	}
	return bal, nil
}

func (r *httpRepo) TransferConfirmed(ctx context.Context, chain, txHash string) (bool, error) {
	c, ok := r.chains[chain]
	if !ok {
		return false, fmt.Errorf("chain %q not supported", chain)
	}
	var receipt struct {
		Status string `json:"status"`
		To     string `json:"to"`
	}
	found, err := r.rpc(ctx, c, "eth_getTransactionReceipt", []any{txHash}, &receipt)
	if err != nil {
		return false, err
	}
	if !found {
		// not mined yet
		return false, nil
	}
	if receipt.Status != "0x1" {
		return false, fmt.Errorf("transaction %s reverted", txHash)
	}
	if !strings.EqualFold(receipt.To, c.TokenContract) {
		return false, fmt.Errorf("transaction %s is not a transfer on the expected token contract", txHash)
	}
	return true, nil
}

func (r *httpRepo) ethCall(ctx context.Context, c config.Chain, to, data string) (string, error) {
	var out string
	found, err := r.rpc(ctx, c, "eth_call", []any{map[string]string{"to": to, "data": data}, "latest"}, &out)
	if err != nil {
		return "", err
	}
	if !found || out == "" || out == "0x" {
		return "", errors.New("eth_call returned empty result")
	}
	return out, nil
}

// rpc performs one JSON-RPC round trip. found is false when the node answers
// with a null result (e.g. unknown transaction).
func (r *httpRepo) rpc(ctx context.Context, c config.Chain, method string, params []any, result any) (found bool, err error) {
	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      r.nextID.Add(1),
		"method":  method,
		"params":  params,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.RPCURL, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("rpc %s: %s", method, resp.Status)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return false, err
	}
	if envelope.Error != nil {
		return false, fmt.Errorf("rpc %s: %s (%d)", method, envelope.Error.Message, envelope.Error.Code)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(envelope.Result, result)
}
