package trading

import "github.com/pkg/errors"

// TimeFrame is the bucket width of a portfolio history series.
type TimeFrame int

const (
	OneMinute TimeFrame = iota + 1
	FiveMinutes
	FifteenMinutes
	ThirtyMinutes
	OneHour
	FourHours
	OneDay
	OneWeek
	OneMonth
)

var timeFrameNames = map[TimeFrame]string{
	OneMinute:      "1Min",
	FiveMinutes:    "5Min",
	FifteenMinutes: "15Min",
	ThirtyMinutes:  "30Min",
	OneHour:        "1H",
	FourHours:      "4H",
	OneDay:         "1D",
	OneWeek:        "1W",
	OneMonth:       "1M",
}

var timeFrameAliases = map[string]TimeFrame{
	"1Min":   OneMinute,
	"5Min":   FiveMinutes,
	"15Min":  FifteenMinutes,
	"30Min":  ThirtyMinutes,
	"1Hour":  OneHour,
	"4Hour":  FourHours,
	"1Day":   OneDay,
	"1Week":  OneWeek,
	"1Month": OneMonth,
	"1T":     OneMinute,
	"5T":     FiveMinutes,
	"15T":    FifteenMinutes,
	"30T":    ThirtyMinutes,
	"1H":     OneHour,
	"4H":     FourHours,
	"1D":     OneDay,
	"1W":     OneWeek,
	"1M":     OneMonth,
}

func (t TimeFrame) String() string { return timeFrameNames[t] }

func (t TimeFrame) MarshalText() ([]byte, error) {
	return marshalEnum(timeFrameNames, "timeframe", t)
}

func (t *TimeFrame) UnmarshalText(text []byte) (err error) {
	*t, err = ParseTimeFrame(string(text))
	return err
}

// ParseTimeFrame accepts the long ("1Hour"), short ("1H") and minute-tick
// ("15T") spellings.
func ParseTimeFrame(s string) (TimeFrame, error) {
	if t, ok := timeFrameAliases[s]; ok {
		return t, nil
	}
	return 0, errors.Errorf("unknown timeframe %q", s)
}
