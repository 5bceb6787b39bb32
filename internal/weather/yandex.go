package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ykvlv/forecast-bot/internal/httpx"
)

// YandexProvider fetches forecasts from the Yandex Weather API and maps
// the daytime part of each day onto Daily.
type YandexProvider struct {
	baseURL string
	apiKey  string
	client  *httpx.Client
}

func NewYandexProvider(client *httpx.Client, baseURL, apiKey string) *YandexProvider {
	return &YandexProvider{baseURL: baseURL, apiKey: apiKey, client: client}
}

func (p *YandexProvider) Name() string { return Yandex }

func (p *YandexProvider) Fetch(ctx context.Context, at Coordinates) (*Forecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("yandex weather key is not configured")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", at.Lat))
	values.Set("lon", fmt.Sprintf("%f", at.Lon))
	values.Set("limit", "1")
	header := http.Header{}
	header.Set("X-Yandex-Weather-Key", p.apiKey)

	var payload struct {
		Forecasts []struct {
			Parts struct {
				Day struct {
					TempMax *float64 `json:"temp_max"`
					TempMin *float64 `json:"temp_min"`
					PrecMm  *float64 `json:"prec_mm"`
				} `json:"day"`
			} `json:"parts"`
		} `json:"forecasts"`
	}
	found, err := p.client.GetJSON(ctx, p.baseURL+"?"+values.Encode(), header, &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	f := &Forecast{Daily: &Daily{}}
	for _, day := range payload.Forecasts {
		f.Daily.TempMax = append(f.Daily.TempMax, day.Parts.Day.TempMax)
		f.Daily.TempMin = append(f.Daily.TempMin, day.Parts.Day.TempMin)
		f.Daily.Precip = append(f.Daily.Precip, day.Parts.Day.PrecMm)
	}
	return f, nil
}
