package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to the Qdrant REST API. One collection per project, one point
// per processed video.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type collectionCreateRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type upsertRequest struct {
	Points []Point `json:"points"`
}

type Point struct {
	ID      uint64                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

type pointsDeleteRequest struct {
	Points []uint64 `json:"points"`
}

type apiResponse struct {
	Status json.RawMessage `json:"status"`
	Time   float64         `json:"time"`
}

// CollectionExists checks whether a collection is already present.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	status, _, err := c.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return false, err
	}
	switch {
	case status == http.StatusOK:
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("qdrant get collection %s: status %d", name, status)
	}
}

// EnsureCollection creates the collection with the given vector size if it
// does not exist yet. A concurrent create racing us is absorbed: an
// already-exists conflict counts as success.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	exists, err := c.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	body := collectionCreateRequest{
		Vectors: vectorParams{Size: vectorSize, Distance: "Cosine"},
	}
	status, respBody, err := c.do(ctx, http.MethodPut, "/collections/"+name, body)
	if err != nil {
		return err
	}
	if status == http.StatusConflict {
		// another upload created it first
		return nil
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant create collection %s: status %d body %s", name, status, respBody)
	}
	return nil
}

// UpsertPoint writes a single point. Writing the same id again overwrites the
// existing point instead of adding a new one.
func (c *Client) UpsertPoint(ctx context.Context, collection string, point Point) error {
	body := upsertRequest{Points: []Point{point}}
	status, respBody, err := c.do(ctx, http.MethodPut, "/collections/"+collection+"/points?wait=true", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant upsert into %s: status %d body %s", collection, status, respBody)
	}
	return nil
}

// DeletePoint removes a point by id. Missing points are not an error.
func (c *Client) DeletePoint(ctx context.Context, collection string, id uint64) error {
	body := pointsDeleteRequest{Points: []uint64{id}}
	status, respBody, err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/delete?wait=true", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNotFound {
		return fmt.Errorf("qdrant delete point %d from %s: status %d body %s", id, collection, status, respBody)
	}
	return nil
}

// DeleteCollection drops a collection and all its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	status, respBody, err := c.do(ctx, http.MethodDelete, "/collections/"+name, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNotFound {
		return fmt.Errorf("qdrant delete collection %s: status %d body %s", name, status, respBody)
	}
	return nil
}

// do sends one JSON request with retry on transport errors and 5xx responses.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
	}

	bo := backoff.WithContext(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(10*time.Second)), ctx)

	var status int
	var respBody []byte
	op := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, _ = io.ReadAll(resp.Body)
		status = resp.StatusCode
		if status >= 500 {
			return fmt.Errorf("qdrant server error: status %d", status)
		}
		return nil
	}

	if err := backoff.Retry(op, bo); err != nil {
		return status, respBody, err
	}
	return status, respBody, nil
}
