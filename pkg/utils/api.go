package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type API struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewAPI(baseURL string) *API {
	return &API{client: http.DefaultClient, baseURL: baseURL}
}

// SetToken attaches a bearer token to subsequent requests.
func (a *API) SetToken(token string) {
	a.token = token
}

func (a *API) Get(path string, params url.Values, v any) error {
	if params != nil {
		path += "?" + params.Encode()
	}
	req, err := http.NewRequest("GET", fmt.Sprintf("%s%s", a.baseURL, path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
