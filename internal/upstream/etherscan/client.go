// Package etherscan reads account history from the Etherscan v2 multichain API.
package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tempo/internal/upstream"

	"golang.org/x/time/rate"
)

type Config struct {
	APIKey string
	// BaseURL defaults to https://api.etherscan.io/v2/api
	BaseURL string
	// RateLimitPerSec defaults to 2 (free tier allows 3).
	RateLimitPerSec int
}

type Transaction struct {
	Hash         string `json:"hash"`
	BlockNumber  string `json:"blockNumber"`
	TimeStamp    string `json:"timeStamp"`
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"`
	GasUsed      string `json:"gasUsed"`
	GasPrice     string `json:"gasPrice"`
	IsError      string `json:"isError"`
	FunctionName string `json:"functionName"`
}

// apiResponse is the envelope of every Etherscan response. On success
// Result is an array; on failure it is an error string.
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type Client struct {
	config Config
	http   *upstream.Client
}

func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.etherscan.io/v2/api"
	}
	if config.RateLimitPerSec <= 0 {
		config.RateLimitPerSec = 2
	}
	return &Client{
		config: config,
		http:   upstream.NewClient("etherscan", 30*time.Second, rate.Limit(config.RateLimitPerSec)),
	}
}

// TxList returns the newest normal transactions of address on chainId.
func (c *Client) TxList(ctx context.Context, chainId int64, address string, page, offset int) ([]Transaction, error) {
	params := url.Values{
		"chainid":    {strconv.FormatInt(chainId, 10)},
		"module":     {"account"},
		"action":     {"txlist"},
		"address":    {address},
		"startblock": {"0"},
		"endblock":   {"99999999"},
		"page":       {strconv.Itoa(page)},
		"offset":     {strconv.Itoa(offset)},
		"sort":       {"desc"},
		"apikey":     {c.config.APIKey},
	}

	body, err := c.http.Get(ctx, c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse etherscan response: %w", err)
	}

	if resp.Status != "1" {
		if strings.HasPrefix(resp.Message, "No transactions found") {
			return []Transaction{}, nil
		}
		var reason string
		_ = json.Unmarshal(resp.Result, &reason)
		return nil, fmt.Errorf("etherscan error: %s %s", resp.Message, reason)
	}

	var txs []Transaction
	if err := json.Unmarshal(resp.Result, &txs); err != nil {
		return nil, fmt.Errorf("parse etherscan transactions: %w", err)
	}
	return txs, nil
}
