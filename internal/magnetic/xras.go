package magnetic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ykvlv/forecast-bot/internal/httpx"
)

// NoDataText is shown when no storm forecast is available.
const NoDataText = "Нет данных о магнитных бурях"

// Day is one day of the Kp forecast.
type Day struct {
	Time  string `json:"time"`
	MaxKp Kp     `json:"max_kp"`
}

// Kp is a max_kp value kept as written. Numbers and strings are both accepted,
// so one odd day does not fail the whole forecast; null decodes as empty.
type Kp string

func (k *Kp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*k = Kp(s)
		return nil
	}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		raw = ""
	}
	*k = Kp(raw)
	return nil
}

func (k Kp) String() string {
	if k == "" {
		return "—"
	}
	return string(k)
}

// Forecast is the X-RAS short-term Kp forecast for a region.
type Forecast struct {
	Data []Day `json:"data"`
}

// Client talks to xras.ru.
type Client struct {
	baseURL string
	http    *httpx.Client
}

func NewClient(client *httpx.Client, baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

// Forecast fetches the rolling Kp forecast for region. nil, nil means no data.
func (c *Client) Forecast(ctx context.Context, region string) (*Forecast, error) {
	u := fmt.Sprintf("%s/txt/kpf_%s.json", c.baseURL, url.PathEscape(region))
	var f Forecast
	found, err := c.http.GetJSON(ctx, u, nil, &f)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &f, nil
}

// FetchRegions downloads and parses the region catalog. found is false on a non-2xx answer.
func (c *Client) FetchRegions(ctx context.Context) (map[string]Region, bool, error) {
	text, found, err := c.http.GetText(ctx, c.baseURL+"/regions_js_dk.php", nil)
	if err != nil || !found {
		return nil, found, err
	}
	return ParseRegions(text), true, nil
}

// Format renders one "<date>: Kp=<max_kp>" line per day.
func Format(f *Forecast) string {
	if f == nil || f.Data == nil {
		return NoDataText
	}
	lines := make([]string, 0, len(f.Data))
	for _, d := range f.Data {
		lines = append(lines, fmt.Sprintf("%s: Kp=%s", d.Time, d.MaxKp))
	}
	return strings.Join(lines, "\n")
}
