package weather

import (
	"context"
	"strconv"
	"strings"
)

// NoDataText is shown when a forecast has no daily section.
const NoDataText = "Нет данных погоды"

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Daily holds per-day series indexed by day offset from today.
// Upstreams may send null entries, hence the pointers.
type Daily struct {
	TempMax []*float64 `json:"temperature_2m_max"`
	TempMin []*float64 `json:"temperature_2m_min"`
	Precip  []*float64 `json:"precipitation_sum"`
}

// Forecast is the normalized provider answer.
type Forecast struct {
	Daily *Daily `json:"daily"`
}

// Provider fetches a forecast for a point. A nil forecast with a nil error means
// the upstream had no data for this request.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, at Coordinates) (*Forecast, error)
}

// Format renders today's maximum, minimum and precipitation as three lines.
func Format(f *Forecast) string {
	if f == nil || f.Daily == nil || f.Daily.empty() {
		return NoDataText
	}
	const today = 0
	var b strings.Builder
	b.WriteString("Макс: " + value(f.Daily.TempMax, today) + "°C\n")
	b.WriteString("Мин: " + value(f.Daily.TempMin, today) + "°C\n")
	b.WriteString("Осадки: " + value(f.Daily.Precip, today) + "мм")
	return b.String()
}

func (d *Daily) empty() bool {
	return len(d.TempMax) == 0 && len(d.TempMin) == 0 && len(d.Precip) == 0
}

func value(series []*float64, i int) string {
	if i >= len(series) || series[i] == nil {
		return "—"
	}
	return strconv.FormatFloat(*series[i], 'f', -1, 64)
}
