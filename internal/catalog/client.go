package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"backend/internal/models"
)

// Client talks to the platform catalog backend: account registration, the
// administrative-area directory, category/tag management, media upload and
// the final shop submission. Every request carries a bounded timeout so a
// hung upstream can never leave a wizard step loading forever.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

// envelope is the uniform response wrapper the catalog backend uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// AccountRegistration is the payload for creating the shop-owner account.
type AccountRegistration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	District string `json:"district"`
	Ward     string `json:"ward"`
}

func (c *Client) RegisterShopAccount(ctx context.Context, reg AccountRegistration) error {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reg).
		SetResult(&env).
		SetError(&env).
		Post("/accounts/shop")

	return checkEnvelope(resp, err, &env)
}

func (c *Client) ListProvinces(ctx context.Context) ([]models.AddressOption, error) {
	return c.listOptions(ctx, "/locations/provinces")
}

func (c *Client) ListDistricts(ctx context.Context, provinceCode string) ([]models.AddressOption, error) {
	return c.listOptions(ctx, fmt.Sprintf("/locations/provinces/%s/districts", provinceCode))
}

func (c *Client) ListWards(ctx context.Context, districtCode string) ([]models.AddressOption, error) {
	return c.listOptions(ctx, fmt.Sprintf("/locations/districts/%s/wards", districtCode))
}

func (c *Client) listOptions(ctx context.Context, path string) ([]models.AddressOption, error) {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env).
		Get(path)

	if err := checkEnvelope(resp, err, &env); err != nil {
		return nil, err
	}

	var options []models.AddressOption
	if err := json.Unmarshal(env.Data, &options); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return options, nil
}

func (c *Client) SuggestTags(ctx context.Context, parentCategoryID, keyword string) ([]string, error) {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("keyword", keyword).
		SetResult(&env).
		SetError(&env).
		Get(fmt.Sprintf("/categories/%s/tags/suggest", parentCategoryID))

	if err := checkEnvelope(resp, err, &env); err != nil {
		return nil, err
	}

	var tags []string
	if err := json.Unmarshal(env.Data, &tags); err != nil {
		return nil, fmt.Errorf("catalog: decode tag suggestions: %w", err)
	}
	return tags, nil
}

func (c *Client) ValidateTags(ctx context.Context, parentCategoryID string, tags []string) error {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"tags": tags}).
		SetResult(&env).
		SetError(&env).
		Post(fmt.Sprintf("/categories/%s/tags/validate", parentCategoryID))

	return checkEnvelope(resp, err, &env)
}

func (c *Client) CreateCategory(ctx context.Context, parentCategoryID string, tags []string) (string, error) {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"parentId": parentCategoryID, "tags": tags}).
		SetResult(&env).
		SetError(&env).
		Post("/categories")

	if err := checkEnvelope(resp, err, &env); err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return "", fmt.Errorf("catalog: decode created category: %w", err)
	}
	return created.ID, nil
}

func (c *Client) FinalizeShop(ctx context.Context, draft models.ShopDraft) error {
	var env envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(draft).
		SetResult(&env).
		SetError(&env).
		Post("/shops")

	return checkEnvelope(resp, err, &env)
}
