// Package wormholescan queries WormholeScan for the cross-chain state of a
// Wormhole transfer identified by its source transaction hash.
package wormholescan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tempo/internal/upstream"

	"github.com/tidwall/gjson"
)

// Operation is the subset of a WormholeScan operation the service tracks.
type Operation struct {
	Id            string
	SourceChainId int
	SourceStatus  string
	TargetChainId int
	TargetStatus  string
	TargetTxHash  string
	// Vaa is the base64 signed VAA, empty until guardians have signed.
	Vaa         string
	TokenSymbol string
	TokenAmount string
}

type Client struct {
	baseURL string
	http    *upstream.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.wormholescan.io"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    upstream.NewClient("wormholescan", 15*time.Second, 0),
	}
}

// OperationByTxHash returns the operation for a source tx hash, or nil when
// WormholeScan has not indexed it yet.
func (c *Client) OperationByTxHash(ctx context.Context, txHash string) (*Operation, error) {
	params := url.Values{}
	params.Set("txHash", txHash)
	params.Set("page", "0")
	params.Set("pageSize", "1")

	body, err := c.http.Get(ctx, c.baseURL+"/api/v1/operations?"+params.Encode(), nil)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("wormholescan returned invalid JSON")
	}
	return parseOperation(gjson.GetBytes(body, "operations.0")), nil
}

func parseOperation(op gjson.Result) *Operation {
	if !op.Exists() {
		return nil
	}
	return &Operation{
		Id:            op.Get("id").String(),
		SourceChainId: int(op.Get("sourceChain.chainId").Int()),
		SourceStatus:  op.Get("sourceChain.status").String(),
		TargetChainId: int(op.Get("targetChain.chainId").Int()),
		TargetStatus:  op.Get("targetChain.status").String(),
		TargetTxHash:  op.Get("targetChain.transaction.txHash").String(),
		Vaa:           op.Get("vaa.raw").String(),
		TokenSymbol:   op.Get("data.symbol").String(),
		TokenAmount:   op.Get("data.tokenAmount").String(),
	}
}
