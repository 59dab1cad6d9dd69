package prices

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"tempo/internal/errorx"
	"tempo/internal/svc"
	"tempo/internal/types"
	"tempo/internal/upstream"

	"github.com/zeromicro/go-zero/core/logx"
)

const maxIds = 250

var coinIdPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type PricesLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewPricesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PricesLogic {
	return &PricesLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Simple proxies /simple/price.
func (l *PricesLogic) Simple(req *types.SimplePriceReq) (json.RawMessage, error) {
	ids, err := parseIds(req.Ids, true)
	if err != nil {
		return nil, err
	}
	query := url.Values{
		"ids":           {ids},
		"vs_currencies": {strings.ToLower(req.VsCurrencies)},
	}
	if req.Include24hrChange {
		query.Set("include_24hr_change", "true")
	}
	if req.IncludeMarketCap {
		query.Set("include_market_cap", "true")
	}
	return l.get("/simple/price", query)
}

// Markets proxies /coins/markets.
func (l *PricesLogic) Markets(req *types.MarketsReq) (json.RawMessage, error) {
	ids, err := parseIds(req.Ids, false)
	if err != nil {
		return nil, err
	}
	query := url.Values{
		"vs_currency": {strings.ToLower(req.VsCurrency)},
		"order":       {req.Order},
		"per_page":    {strconv.Itoa(req.PerPage)},
		"page":        {strconv.Itoa(req.Page)},
		"sparkline":   {strconv.FormatBool(req.Sparkline)},
	}
	if ids != "" {
		query.Set("ids", ids)
	}
	return l.get("/coins/markets", query)
}

// Chart proxies /coins/{id}/market_chart.
func (l *PricesLogic) Chart(req *types.ChartReq) (json.RawMessage, error) {
	id := strings.ToLower(strings.TrimSpace(req.Id))
	if !coinIdPattern.MatchString(id) {
		return nil, errorx.BadRequest("invalid coin id")
	}
	if req.Days != "max" {
		if days, err := strconv.Atoi(req.Days); err != nil || days <= 0 {
			return nil, errorx.BadRequest(`days must be a positive integer or "max"`)
		}
	}
	return l.get("/coins/"+id+"/market_chart", url.Values{
		"vs_currency": {strings.ToLower(req.VsCurrency)},
		"days":        {req.Days},
	})
}

func (l *PricesLogic) get(path string, query url.Values) (json.RawMessage, error) {
	body, err := l.svcCtx.CoinGecko.Get(l.ctx, path, query)
	if err != nil {
		l.Errorf("coingecko %s: %v", path, err)
		return nil, mapUpstreamError(err)
	}
	if !json.Valid(body) {
		return nil, errorx.BadGateway("CoinGecko returned an invalid response")
	}
	return body, nil
}

func mapUpstreamError(err error) error {
	switch upstream.StatusCode(err) {
	case http.StatusTooManyRequests:
		return errorx.TooManyRequests("CoinGecko rate limit exceeded, please try again later")
	case http.StatusNotFound:
		return errorx.NotFound("coin not found")
	default:
		return errorx.BadGateway("failed to fetch data from CoinGecko")
	}
}

// parseIds normalizes a comma separated id list.
func parseIds(raw string, required bool) (string, error) {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if !coinIdPattern.MatchString(id) {
			return "", errorx.BadRequest("invalid coin id: " + id)
		}
		ids = append(ids, id)
	}
	if required && len(ids) == 0 {
		return "", errorx.BadRequest("ids is required")
	}
	if len(ids) > maxIds {
		return "", errorx.BadRequest("too many ids")
	}
	return strings.Join(ids, ","), nil
}
