package thumbnails

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
)

const unsplashAPI = "https://api.unsplash.com"

// Unsplash queries the Unsplash photo search API.
type Unsplash struct {
	client    *fasthttp.Client
	baseURL   string
	accessKey string
	timeout   time.Duration
}

func NewUnsplash(accessKey string) *Unsplash {
	return &Unsplash{
		client:    &fasthttp.Client{Name: "eduquiz"},
		baseURL:   unsplashAPI,
		accessKey: accessKey,
		timeout:   5 * time.Second,
	}
}

// WithBaseURL points the client at another host, such as a test server.
func (u *Unsplash) WithBaseURL(base string) *Unsplash {
	u.baseURL = base
	return u
}

type searchResponse struct {
	Results []struct {
		ID             string `json:"id"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
			Thumb   string `json:"thumb"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

func (u *Unsplash) Search(ctx context.Context, query string, limit int) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("orientation", "landscape")

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u.baseURL + "/search/photos?" + params.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	timeout := u.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if err := u.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("unsplash search: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unsplash search: status %d", resp.StatusCode())
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("unsplash search: decode: %w", err)
	}

	photos := make([]Photo, 0, len(body.Results))
	for _, r := range body.Results {
		desc := r.Description
		if desc == "" {
			desc = r.AltDescription
		}
		photos = append(photos, Photo{
			ID:          r.ID,
			Description: desc,
			URL:         r.URLs.Regular,
			ThumbURL:    r.URLs.Thumb,
			Author:      r.User.Name,
		})
	}
	return photos, nil
}
