package binance

import (
	"fmt"
	"strconv"

	"github.com/thekoalas/koalabot/internal/domain"
)

// searchRequest is the JSON body of the C2C ad search endpoint.
type searchRequest struct {
	Page        int    `json:"page"`
	Rows        int    `json:"rows"`
	Asset       string `json:"asset"`
	TradeType   string `json:"tradeType"`
	Fiat        string `json:"fiat"`
	TransAmount string `json:"transAmount,omitempty"`
}

// searchResponse is the API envelope. Error responses use the same envelope
// with an empty (or absent) Data list, which is what makes the fail-soft
// client possible.
type searchResponse struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Data    []apiOrder `json:"data"`
	Success bool       `json:"success"`
}

// apiOrder is one advertisement as returned by the API, with numerics still
// encoded as strings.
type apiOrder struct {
	Adv        apiAdv        `json:"adv"`
	Advertiser apiAdvertiser `json:"advertiser"`
}

type apiAdv struct {
	Price         string           `json:"price"`
	SurplusAmount string           `json:"surplusAmount"`
	TradeMethods  []apiTradeMethod `json:"tradeMethods"`
}

type apiTradeMethod struct {
	TradeMethodName string `json:"tradeMethodName"`
}

type apiAdvertiser struct {
	NickName        string  `json:"nickName"`
	UserNo          string  `json:"userNo"`
	UserType        string  `json:"userType"`
	MonthFinishRate float64 `json:"monthFinishRate"`
}

// toDomainOrder converts an API advertisement into a domain Order, parsing
// the string-typed numerics exactly once. A price or amount that does not
// parse as a non-negative number is a data-contract violation and fails the
// conversion.
func (o *apiOrder) toDomainOrder() (domain.Order, error) {
	price, err := strconv.ParseFloat(o.Adv.Price, 64)
	if err != nil || price < 0 {
		return domain.Order{}, fmt.Errorf("%w: price %q", domain.ErrBadResponse, o.Adv.Price)
	}
	available, err := strconv.ParseFloat(o.Adv.SurplusAmount, 64)
	if err != nil || available < 0 {
		return domain.Order{}, fmt.Errorf("%w: surplus amount %q", domain.ErrBadResponse, o.Adv.SurplusAmount)
	}

	methods := make([]string, 0, len(o.Adv.TradeMethods))
	for _, m := range o.Adv.TradeMethods {
		methods = append(methods, m.TradeMethodName)
	}

	return domain.Order{
		Advertiser: domain.Advertiser{
			NickName:        o.Advertiser.NickName,
			UserNo:          o.Advertiser.UserNo,
			UserType:        o.Advertiser.UserType,
			MonthFinishRate: o.Advertiser.MonthFinishRate,
		},
		Price:          price,
		Available:      available,
		PaymentMethods: methods,
	}, nil
}
