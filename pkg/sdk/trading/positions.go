package trading

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
	"github.com/betbot/alpaca/pkg/sdk/query"
)

type Position struct {
	AssetID                string           `json:"asset_id"`
	Symbol                 string           `json:"symbol"`
	Exchange               string           `json:"exchange"`
	AssetClass             string           `json:"asset_class"`
	AssetMarginable        bool             `json:"asset_marginable"`
	AvgEntryPrice          decimal.Decimal  `json:"avg_entry_price"`
	Qty                    decimal.Decimal  `json:"qty"`
	QtyAvailable           *decimal.Decimal `json:"qty_available"`
	Side                   PositionSide     `json:"side"`
	MarketValue            *decimal.Decimal `json:"market_value"`
	CostBasis              decimal.Decimal  `json:"cost_basis"`
	UnrealizedPL           *decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPLPC         *decimal.Decimal `json:"unrealized_plpc"`
	UnrealizedIntradayPL   *decimal.Decimal `json:"unrealized_intraday_pl"`
	UnrealizedIntradayPLPC *decimal.Decimal `json:"unrealized_intraday_plpc"`
	CurrentPrice           *decimal.Decimal `json:"current_price"`
	LastdayPrice           *decimal.Decimal `json:"lastday_price"`
	ChangeToday            *decimal.Decimal `json:"change_today"`
}

// ClosedPosition is one entry of a close-all. Body is the closing order when
// Status is 200.
type ClosedPosition struct {
	Symbol string `json:"symbol"`
	Status int    `json:"status"`
	Body   *Order `json:"body"`
}

var positionCloseAccept = []int{http.StatusOK, http.StatusMultiStatus}

func (c *Client) AllOpenPositions(ctx context.Context) ([]Position, error) {
	return sdkhttp.Do[[]Position](ctx, c.dispatcher, &sdkhttp.Request{
		Method: http.MethodGet,
		URL:    c.url(EndpointPositions),
	})
}

func (c *Client) PositionBySymbol(ctx context.Context, symbol string) (*Position, error) {
	return sdkhttp.Do[*Position](ctx, c.dispatcher, &sdkhttp.Request{
		Method: http.MethodGet,
		URL:    c.url(EndpointPositions + "/" + symbol),
	})
}

func (c *Client) PositionByAssetID(ctx context.Context, assetID uuid.UUID) (*Position, error) {
	return c.PositionBySymbol(ctx, assetID.String())
}

// CloseAllPositions liquidates every open position, optionally cancelling
// open orders first.
func (c *Client) CloseAllPositions(ctx context.Context, cancelOrders bool) ([]ClosedPosition, error) {
	var v query.Values
	v.Set("cancel_orders", strconv.FormatBool(cancelOrders))
	return sdkhttp.Do[[]ClosedPosition](ctx, c.dispatcher, &sdkhttp.Request{
		Method: http.MethodDelete,
		URL:    query.URL(c.url(EndpointPositions), v),
		Accept: positionCloseAccept,
	})
}

// ClosePosition closes all of a position, or part of it when qty or
// percentage is given. The server rejects both at once.
func (c *Client) ClosePosition(ctx context.Context, symbolOrAssetID string, qty, percentage *decimal.Decimal) (*Order, error) {
	var v query.Values
	if qty != nil {
		v.Set("qty", qty.String())
	}
	if percentage != nil {
		v.Set("percentage", percentage.String())
	}
	return sdkhttp.Do[*Order](ctx, c.dispatcher, &sdkhttp.Request{
		Method: http.MethodDelete,
		URL:    query.URL(c.url(EndpointPositions+"/"+symbolOrAssetID), v),
		Accept: positionCloseAccept,
	})
}
