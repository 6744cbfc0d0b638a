package model

// TaxRecord is one computed tax line attached to a fare path.
type TaxRecord struct {
	Code     string  `json:"code"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	NoDec    int     `json:"no_dec"`
	Exempt   bool    `json:"exempt,omitempty"`
}

// TaxOverride is a tax amount forced by the pricing entry.
type TaxOverride struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// TaxItem is a per-boarding-point breakdown entry used for the ZP
// segment-tax annotation on the fare calc line.
type TaxItem struct {
	Code         string  `json:"code"`
	Amount       float64 `json:"amount"`
	BoardAirport string  `json:"board_airport"`
}
