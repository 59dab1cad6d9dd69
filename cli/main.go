package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/rest/httpc"
)

type estimateFeeReq struct {
	SourceChain string  `json:"source_chain"`
	TargetChain string  `json:"target_chain"`
	Token       string  `json:"token"`
	Amount      float64 `json:"amount"`
	IncludeSwap bool    `json:"include_swap"`
}

type importTxReq struct {
	Authorization string `header:"Authorization"`
	TxHash        string `json:"tx_hash"`
	SourceChain   string `json:"source_chain"`
	TargetChain   string `json:"target_chain"`
	TokenSymbol   string `json:"token_symbol"`
	Amount        string `json:"amount"`
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  cli [-api URL] estimate -from ethereum -to base -token usd-coin -amount 1000 [-swap]
  cli [-api URL] import -token-jwt JWT -tx 0x... -from ethereum -to base
`)
	os.Exit(2)
}

func main() {
	api := flag.String("api", "http://localhost:8888/api", "Tempo API base URL")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	var (
		path string
		body any
	)
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "estimate":
		fs := flag.NewFlagSet("estimate", flag.ExitOnError)
		from := fs.String("from", "ethereum", "source chain key")
		to := fs.String("to", "base", "target chain key")
		token := fs.String("token", "usd-coin", "CoinGecko coin id")
		amount := fs.Float64("amount", 0, "amount of token to bridge")
		swap := fs.Bool("swap", false, "include a swap on the target chain")
		_ = fs.Parse(args)

		path = "/bridge/estimate-fee"
		body = estimateFeeReq{SourceChain: *from, TargetChain: *to, Token: *token, Amount: *amount, IncludeSwap: *swap}
	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		jwt := fs.String("token-jwt", os.Getenv("TEMPO_ACCESS_TOKEN"), "access token of the importing user")
		tx := fs.String("tx", "", "source chain transaction hash")
		from := fs.String("from", "ethereum", "source chain key")
		to := fs.String("to", "base", "target chain key")
		symbol := fs.String("symbol", "", "token symbol (optional)")
		amount := fs.String("amount", "", "amount transferred (optional)")
		_ = fs.Parse(args)
		if *jwt == "" || *tx == "" {
			log.Fatal("import needs -token-jwt and -tx")
		}

		path = "/bridge/import"
		body = importTxReq{
			Authorization: "Bearer " + *jwt,
			TxHash:        *tx,
			SourceChain:   *from,
			TargetChain:   *to,
			TokenSymbol:   *symbol,
			Amount:        *amount,
		}
	default:
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	url := strings.TrimRight(*api, "/") + path
	fmt.Printf("POST %s\n", url)
	resp, err := httpc.Do(ctx, http.MethodPost, url, body)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}
	fmt.Printf("HTTP %d\n%s\n", resp.StatusCode, out)
	if resp.StatusCode >= http.StatusBadRequest {
		os.Exit(1)
	}
}
