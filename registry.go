package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// CompanyInfo is the subset of registry data we keep on a legal person.
type CompanyInfo struct {
	Name    string `json:"name"`
	Head    string `json:"head"`
	Address string `json:"address"`
}

const defaultRegistryURL = "https://api-fns.ru/api/egr"

// FNSClient looks up companies in the federal registry by tax id. The
// upstream payload uses Cyrillic keys, mapped here once at the edge.
type FNSClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  Logger
}

var _ CompanyRegistry = (*FNSClient)(nil)

// NewFNSClient creates a registry client with a bounded request timeout.
func NewFNSClient(apiKey string) *FNSClient {
	return &FNSClient{
		baseURL: defaultRegistryURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  defLogger{},
	}
}

// WithBaseURL points the client at a different endpoint, mostly for tests.
func (c *FNSClient) WithBaseURL(baseURL string) *FNSClient {
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// WithLogger overrides the logger used by the client.
func (c *FNSClient) WithLogger(logger Logger) *FNSClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

type fnsResponse struct {
	Items []struct {
		Legal struct {
			ShortName string `json:"НаимСокрЮЛ"`
			Head      struct {
				FullName string `json:"ФИОПолн"`
			} `json:"Руководитель"`
			Address struct {
				FullAddress string `json:"АдресПолн"`
			} `json:"Адрес"`
		} `json:"ЮЛ"`
	} `json:"items"`
}

func (c *FNSClient) Lookup(ctx context.Context, taxID string) (*CompanyInfo, error) {
	endpoint := fmt.Sprintf("%s?req=%s&key=%s", c.baseURL, url.QueryEscape(taxID), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build registry request")
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("registry request error: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "registry lookup failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, goerrors.New(
			fmt.Sprintf("registry responded with status %d", res.StatusCode),
			goerrors.CategoryOperation,
		)
	}

	var payload fnsResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "could not decode registry response")
	}

	if len(payload.Items) == 0 {
		return nil, ErrCompanyNotFound
	}

	legal := payload.Items[0].Legal
	return &CompanyInfo{
		Name:    legal.ShortName,
		Head:    legal.Head.FullName,
		Address: legal.Address.FullAddress,
	}, nil
}
