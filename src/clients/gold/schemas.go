package gold

// DomesticQuote is one Shanghai (SH) market price point.
type DomesticQuote struct {
	Low  float64 `json:"Low"`
	High float64 `json:"High"`
	SP   float64 `json:"SP"`
}

// InternationalQuote is one international (GJ) market price point.
type InternationalQuote struct {
	SP     float64 `json:"SP"`
	Low    float64 `json:"Low"`
	Symbol string  `json:"Symbol"`
}

// TradeInfo groups the current price points per market segment.
type TradeInfo struct {
	SH []DomesticQuote      `json:"SH"`
	GJ []InternationalQuote `json:"GJ"`
}

type GetTradeResponse struct {
	Data *TradeInfo `json:"data"`
}
