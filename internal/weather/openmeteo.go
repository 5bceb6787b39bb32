package weather

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ykvlv/forecast-bot/internal/httpx"
)

// OpenMeteoProvider fetches daily forecasts from api.open-meteo.com. No API key needed.
type OpenMeteoProvider struct {
	baseURL string
	client  *httpx.Client
}

func NewOpenMeteoProvider(client *httpx.Client, baseURL string) *OpenMeteoProvider {
	return &OpenMeteoProvider{baseURL: baseURL, client: client}
}

func (p *OpenMeteoProvider) Name() string { return OpenMeteo }

func (p *OpenMeteoProvider) Fetch(ctx context.Context, at Coordinates) (*Forecast, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", at.Lat))
	values.Set("longitude", fmt.Sprintf("%f", at.Lon))
	values.Set("hourly", "temperature_2m,apparent_temperature,precipitation_probability")
	values.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	values.Set("timezone", "auto")

	var f Forecast
	found, err := p.client.GetJSON(ctx, p.baseURL+"?"+values.Encode(), nil, &f)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &f, nil
}
