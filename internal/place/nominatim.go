package place

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/reverse"

// NominatimGeocoder reverse-geocodes through an OpenStreetMap Nominatim instance.
type NominatimGeocoder struct {
	client  *resty.Client
	baseURL string
}

type nominatimResponse struct {
	Error   string `json:"error"`
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		Hamlet       string `json:"hamlet"`
		State        string `json:"state"`
		Region       string `json:"region"`
		Country      string `json:"country"`
	} `json:"address"`
}

// NewNominatimGeocoder creates a geocoder. Nominatim's usage policy requires an
// identifying User-Agent.
func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	client := resty.New().
		SetRetryCount(0).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &NominatimGeocoder{client: client, baseURL: baseURL}
}

func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":            strconv.FormatFloat(lat, 'f', 6, 64),
			"lon":            strconv.FormatFloat(lon, 'f', 6, 64),
			"format":         "jsonv2",
			"addressdetails": "1",
		}).
		SetResult(&nominatimResponse{}).
		Get(g.baseURL)
	if err != nil {
		return Address{}, fmt.Errorf("nominatim request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return Address{}, fmt.Errorf("nominatim: bad status %d", resp.StatusCode())
	}

	result, ok := resp.Result().(*nominatimResponse)
	if !ok {
		return Address{}, fmt.Errorf("nominatim: failed to parse response")
	}
	if result.Error != "" {
		return Address{}, fmt.Errorf("nominatim: %s", result.Error)
	}

	a := result.Address
	return Address{
		City:         a.City,
		Town:         a.Town,
		Village:      a.Village,
		Municipality: a.Municipality,
		Hamlet:       a.Hamlet,
		State:        a.State,
		Region:       a.Region,
		Country:      a.Country,
	}, nil
}
