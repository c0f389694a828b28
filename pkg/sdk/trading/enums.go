package trading

// Wire names are spelled out per value. Several are irregular abbreviations
// (gtc, opg, oco) and cannot be derived from the Go identifiers.

type OrderSide int

const (
	Buy OrderSide = iota + 1
	Sell
)

var orderSideNames = map[OrderSide]string{
	Buy:  "buy",
	Sell: "sell",
}

func (s OrderSide) String() string { return orderSideNames[s] }

func (s OrderSide) MarshalText() ([]byte, error) {
	return marshalEnum(orderSideNames, "order side", s)
}

func (s *OrderSide) UnmarshalText(text []byte) (err error) {
	*s, err = parseEnum(orderSideNames, "order side", string(text))
	return err
}

func ParseOrderSide(s string) (OrderSide, error) {
	return parseEnum(orderSideNames, "order side", s)
}

type OrderType int

const (
	Market OrderType = iota + 1
	Limit
	Stop
	StopLimit
	TrailingStop
)

var orderTypeNames = map[OrderType]string{
	Market:       "market",
	Limit:        "limit",
	Stop:         "stop",
	StopLimit:    "stop_limit",
	TrailingStop: "trailing_stop",
}

func (t OrderType) String() string { return orderTypeNames[t] }

func (t OrderType) MarshalText() ([]byte, error) {
	return marshalEnum(orderTypeNames, "order type", t)
}

func (t *OrderType) UnmarshalText(text []byte) (err error) {
	*t, err = parseEnum(orderTypeNames, "order type", string(text))
	return err
}

func ParseOrderType(s string) (OrderType, error) {
	return parseEnum(orderTypeNames, "order type", s)
}

type TimeInForce int

const (
	Day TimeInForce = iota + 1
	GoodTilCanceled
	OpeningOrder
	ClosingOrder
	ImmediateOrCancel
	FillOrKill
)

var timeInForceNames = map[TimeInForce]string{
	Day:               "day",
	GoodTilCanceled:   "gtc",
	OpeningOrder:      "opg",
	ClosingOrder:      "cls",
	ImmediateOrCancel: "ioc",
	FillOrKill:        "fok",
}

func (t TimeInForce) String() string { return timeInForceNames[t] }

func (t TimeInForce) MarshalText() ([]byte, error) {
	return marshalEnum(timeInForceNames, "time in force", t)
}

func (t *TimeInForce) UnmarshalText(text []byte) (err error) {
	*t, err = parseEnum(timeInForceNames, "time in force", string(text))
	return err
}

func ParseTimeInForce(s string) (TimeInForce, error) {
	return parseEnum(timeInForceNames, "time in force", s)
}

type OrderClass int

const (
	Simple OrderClass = iota + 1
	Bracket
	OneCancelsOther
	OneTriggersOther
)

var orderClassNames = map[OrderClass]string{
	Simple:           "simple",
	Bracket:          "bracket",
	OneCancelsOther:  "oco",
	OneTriggersOther: "oto",
}

func (c OrderClass) String() string { return orderClassNames[c] }

func (c OrderClass) MarshalText() ([]byte, error) {
	return marshalEnum(orderClassNames, "order class", c)
}

// UnmarshalText treats an empty string as Simple; the API reports simple
// orders with order_class "".
func (c *OrderClass) UnmarshalText(text []byte) (err error) {
	if len(text) == 0 {
		*c = Simple
		return nil
	}
	*c, err = parseEnum(orderClassNames, "order class", string(text))
	return err
}

func ParseOrderClass(s string) (OrderClass, error) {
	return parseEnum(orderClassNames, "order class", s)
}

type PositionSide int

const (
	Long PositionSide = iota + 1
	Short
)

var positionSideNames = map[PositionSide]string{
	Long:  "long",
	Short: "short",
}

func (s PositionSide) String() string { return positionSideNames[s] }

func (s PositionSide) MarshalText() ([]byte, error) {
	return marshalEnum(positionSideNames, "position side", s)
}

func (s *PositionSide) UnmarshalText(text []byte) (err error) {
	*s, err = parseEnum(positionSideNames, "position side", string(text))
	return err
}
