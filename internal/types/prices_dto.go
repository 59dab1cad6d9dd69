package types

type SimplePriceReq struct {
	Ids               string `form:"ids"`
	VsCurrencies      string `form:"vs_currencies,default=usd"`
	Include24hrChange bool   `form:"include_24hr_change,optional"`
	IncludeMarketCap  bool   `form:"include_market_cap,optional"`
}

type MarketsReq struct {
	VsCurrency string `form:"vs_currency,default=usd"`
	Ids        string `form:"ids,optional"`
	Order      string `form:"order,default=market_cap_desc"`
	PerPage    int    `form:"per_page,default=100,range=[1:250]"`
	Page       int    `form:"page,default=1,range=[1:1000]"`
	Sparkline  bool   `form:"sparkline,optional"`
}

type ChartReq struct {
	Id         string `form:"id"`
	VsCurrency string `form:"vs_currency,default=usd"`
	Days       string `form:"days,default=7"`
}
