package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ykvlv/forecast-bot/internal/httpx"
)

func decode(t *testing.T, raw string) *Forecast {
	t.Helper()
	var f Forecast
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &f
}

func TestFormat_TodayValues(t *testing.T) {
	f := decode(t, `{"daily":{"temperature_2m_max":[5,7],"temperature_2m_min":[-1,0],"precipitation_sum":[0.2,1.5]}}`)
	want := "Макс: 5°C\nМин: -1°C\nОсадки: 0.2мм"
	if got := Format(f); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFormat_EmptyDaily(t *testing.T) {
	for _, raw := range []string{`{}`, `{"daily":{}}`, `{"daily":null}`} {
		if got := Format(decode(t, raw)); got != NoDataText {
			t.Fatalf("%s: want %q, got %q", raw, NoDataText, got)
		}
	}
	if got := Format(nil); got != NoDataText {
		t.Fatalf("nil: want %q, got %q", NoDataText, got)
	}
}

func TestFormat_MissingValue(t *testing.T) {
	f := decode(t, `{"daily":{"temperature_2m_max":[null],"temperature_2m_min":[3]}}`)
	want := "Макс: —°C\nМин: 3°C\nОсадки: —мм"
	if got := Format(f); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

type stubProvider string

func (s stubProvider) Name() string { return string(s) }
func (s stubProvider) Fetch(context.Context, Coordinates) (*Forecast, error) {
	return nil, nil
}

func TestRegistry_UnknownFallsBackToDefault(t *testing.T) {
	r := NewRegistry(stubProvider(OpenMeteo), stubProvider(Yandex))
	if got := r.Lookup(Yandex).Name(); got != Yandex {
		t.Fatalf("want yandex, got %s", got)
	}
	for _, name := range []string{"", "accuweather", "OPEN-METEO"} {
		if got := r.Lookup(name).Name(); got != OpenMeteo {
			t.Fatalf("%q: want default, got %s", name, got)
		}
	}
	names := r.Names()
	if len(names) != 2 || names[0] != OpenMeteo || names[1] != Yandex {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestOpenMeteoProvider_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("latitude") != "59.913900" || q.Get("longitude") != "10.752200" {
			t.Errorf("unexpected coordinates: %s", r.URL.RawQuery)
		}
		if q.Get("daily") != "temperature_2m_max,temperature_2m_min,precipitation_sum" || q.Get("timezone") != "auto" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("hourly") == "" {
			t.Errorf("hourly fields missing")
		}
		_, _ = w.Write([]byte(`{"daily":{"temperature_2m_max":[5],"temperature_2m_min":[-1],"precipitation_sum":[0.2]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(httpx.New("open-meteo", srv.Client()), srv.URL)
	f, err := p.Fetch(context.Background(), Coordinates{Lat: 59.9139, Lon: 10.7522})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := Format(f); got != "Макс: 5°C\nМин: -1°C\nОсадки: 0.2мм" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestOpenMeteoProvider_NonSuccessIsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(httpx.New("open-meteo", srv.Client()), srv.URL)
	f, err := p.Fetch(context.Background(), Coordinates{})
	if err != nil || f != nil {
		t.Fatalf("want absent, got %+v %v", f, err)
	}
}

func TestYandexProvider_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Yandex-Weather-Key") != "k" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"forecasts":[{"parts":{"day":{"temp_max":12,"temp_min":4,"prec_mm":1.3}}}]}`))
	}))
	defer srv.Close()

	p := NewYandexProvider(httpx.New("yandex", srv.Client()), srv.URL, "k")
	f, err := p.Fetch(context.Background(), Coordinates{Lat: 55.75, Lon: 37.61})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := Format(f); got != "Макс: 12°C\nМин: 4°C\nОсадки: 1.3мм" {
		t.Fatalf("unexpected format: %q", got)
	}

	noKey := NewYandexProvider(httpx.New("yandex", srv.Client()), srv.URL, "")
	if _, err := noKey.Fetch(context.Background(), Coordinates{}); err == nil {
		t.Fatalf("expected error without key")
	}
}
