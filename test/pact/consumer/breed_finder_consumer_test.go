//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	pacttest "github.com/Apurer/breedmatch-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type breedPayload struct {
	Name       string `json:"name"`
	BreedGroup string `json:"breedGroup"`
}

type matchPayload struct {
	Breed      breedPayload `json:"breed"`
	Percentage float64      `json:"percentage"`
}

type sessionPayload struct {
	ID           string         `json:"id"`
	Breeds       []breedPayload `json:"breeds"`
	TotalMatches int            `json:"totalMatches"`
	HasMore      bool           `json:"hasMore"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestBreedFinderContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	traitMatcher := matchers.Map{
		"name":  matchers.Like("Energy Level"),
		"score": matchers.Like(4.0),
	}
	breedMatcher := matchers.Map{
		"name":       matchers.Like(pacttest.ExistingBreed),
		"breedGroup": matchers.Like(pacttest.ExistingGroup),
		"traits": matchers.EachLike(matchers.Map{
			"name":   matchers.Like("Exercise needs"),
			"traits": matchers.EachLike(traitMatcher, 1),
		}, 1),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateBreedExists).
		UponReceiving("a request to fetch an existing breed").
		WithRequest("GET", "/v1/breeds/"+pacttest.ExistingBreed).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(breedMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateBreedMissing).
		UponReceiving("a request for a missing breed").
		WithRequest("GET", "/v1/breeds/"+pacttest.MissingBreed).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to rank breeds against preferences").
		WithRequest("POST", "/v1/matches", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"preferences": pacttest.ExamplePreferences(), "limit": 3})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(matchers.Map{
				"breed":      breedMatcher,
				"percentage": matchers.Like(87.5),
			}, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to open a search session").
		WithRequest("POST", "/v1/search-sessions", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"searchText": "retriever"})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":           matchers.Like("0b7f6d3e-5a0c-4a55-9c53-3f7f0e0c2f11"),
				"breeds":       matchers.EachLike(breedMatcher, 1),
				"totalMatches": matchers.Like(2),
				"hasMore":      matchers.Like(false),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newBreedClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		breed, err := client.GetBreed(ctx, pacttest.ExistingBreed)
		if err != nil {
			return fmt.Errorf("get breed: %w", err)
		}
		if breed.Name != pacttest.ExistingBreed {
			return fmt.Errorf("expected %s, got %+v", pacttest.ExistingBreed, breed)
		}

		if _, err := client.GetBreed(ctx, pacttest.MissingBreed); err == nil {
			return fmt.Errorf("expected 404 for %s", pacttest.MissingBreed)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		ranking, err := client.Rank(ctx, pacttest.ExamplePreferences(), 3)
		if err != nil {
			return fmt.Errorf("rank: %w", err)
		}
		if len(ranking) == 0 {
			return fmt.Errorf("expected at least one ranked breed")
		}

		session, err := client.OpenSession(ctx, "retriever")
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		if session.ID == "" {
			return fmt.Errorf("expected session id to be set")
		}
		return nil
	})
	require.NoError(t, err)
}

type breedClient struct {
	baseURL    string
	httpClient *http.Client
}

func newBreedClient(config pactconsumer.MockServerConfig) *breedClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &breedClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *breedClient) GetBreed(ctx context.Context, name string) (*breedPayload, error) {
	var out breedPayload
	if err := c.do(ctx, http.MethodGet, "/v1/breeds/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *breedClient) Rank(ctx context.Context, prefs map[string]any, limit int) ([]matchPayload, error) {
	var out []matchPayload
	body := map[string]any{"preferences": prefs, "limit": limit}
	if err := c.do(ctx, http.MethodPost, "/v1/matches", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *breedClient) OpenSession(ctx context.Context, text string) (*sessionPayload, error) {
	var out sessionPayload
	if err := c.do(ctx, http.MethodPost, "/v1/search-sessions", map[string]any{"searchText": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *breedClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
