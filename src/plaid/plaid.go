package plaid

import (
	"fmt"
	"net/http"
	"time"

	"github.com/plaid/plaid-go/v41/plaid"
)

func NewPlaidClient(clientID, secret, env string, timeout time.Duration) (*plaid.APIClient, error) {
	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	configuration.AddDefaultHeader("PLAID-SECRET", secret)
	configuration.HTTPClient = &http.Client{Timeout: timeout}

	switch env {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	default:
		return nil, fmt.Errorf("invalid Plaid environment: %s", env)
	}

	return plaid.NewAPIClient(configuration), nil
}

type Config struct {
	ClientID     string
	Secret       string
	Env          string
	ClientName   string
	CountryCodes []string
	Timeout      time.Duration
}

// Client is the Plaid-backed linking.Aggregator.
type Client struct {
	api          *plaid.APIClient
	clientName   string
	countryCodes []plaid.CountryCode
	pageSize     int32
}

func NewClient(cfg Config) (*Client, error) {
	api, err := NewPlaidClient(cfg.ClientID, cfg.Secret, cfg.Env, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	countryCodes, err := toCountryCodes(cfg.CountryCodes)
	if err != nil {
		return nil, err
	}
	if len(countryCodes) == 0 {
		countryCodes = []plaid.CountryCode{plaid.COUNTRYCODE_US}
	}
	clientName := cfg.ClientName
	if clientName == "" {
		clientName = "Fintrack"
	}
	return &Client{
		api:          api,
		clientName:   clientName,
		countryCodes: countryCodes,
		pageSize:     500,
	}, nil
}

// API exposes the raw client for webhook key lookups.
func (c *Client) API() *plaid.APIClient {
	return c.api
}

func toCountryCodes(values []string) ([]plaid.CountryCode, error) {
	out := make([]plaid.CountryCode, 0, len(values))
	for _, v := range values {
		code, err := plaid.NewCountryCodeFromValue(v)
		if err != nil {
			return nil, fmt.Errorf("country code %q: %w", v, err)
		}
		out = append(out, *code)
	}
	return out, nil
}

func toProducts(values []string) ([]plaid.Products, error) {
	out := make([]plaid.Products, 0, len(values))
	for _, v := range values {
		p, err := plaid.NewProductsFromValue(v)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", v, err)
		}
		out = append(out, *p)
	}
	return out, nil
}
