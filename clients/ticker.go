package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/shopspring/decimal"
)

// PriceTicker reports the dollar price of a lockdrop asset.
type PriceTicker interface {
	Fetch(ctx context.Context, asset lockdrop.Asset) (uint64, error)
}

var coinIDs = map[lockdrop.Asset]string{
	lockdrop.Bitcoin:  "bitcoin",
	lockdrop.Ethereum: "ethereum",
}

// CoinGeckoTicker reads prices from a CoinGecko compatible simple price API.
// The url is the API root, e.g. https://api.coingecko.com/api/v3.
type CoinGeckoTicker struct {
	client *resty.Client
}

const simplePricePath = "/simple/price"

func NewCoinGeckoTicker(url string) *CoinGeckoTicker {
	return &CoinGeckoTicker{
		client: resty.New().
			SetBaseURL(strings.TrimRight(url, "/")).
			SetTimeout(30 * time.Second),
	}
}

// Fetch returns the price in whole dollars, rounded down.
func (t *CoinGeckoTicker) Fetch(ctx context.Context, asset lockdrop.Asset) (uint64, error) {
	id, ok := coinIDs[asset]
	if !ok {
		return 0, fmt.Errorf("no price feed for asset %s", asset)
	}
	response, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"ids": id, "vs_currencies": "usd"}).
		Get(simplePricePath)
	if err != nil {
		return 0, err
	}
	if response.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("Response status code: %v", response.StatusCode())
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(response.Body(), &body); err != nil {
		return 0, fmt.Errorf("Could not parse response: %v", response.String())
	}
	price, ok := body[id]["usd"]
	if !ok {
		return 0, fmt.Errorf("no usd price for %s in response", id)
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("negative price %s for %s", price, id)
	}
	return uint64(price.Floor().IntPart()), nil
}
