package kakao

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultLocalBaseURL = "https://dapi.kakao.com"
	DefaultNaviBaseURL  = "https://apis-navi.kakaomobility.com"
)

// Options tunes a Client. Zero values fall back to production defaults.
type Options struct {
	LocalBaseURL      string
	NaviBaseURL       string
	GeocodeTimeout    time.Duration
	DirectionsTimeout time.Duration
	RatePerSec        float64
	MaxAttempts       int
	InitialBackoff    time.Duration
}

// Client talks to Kakao Local (address and keyword search) and Kakao Mobility
// (directions) with a shared API key, rate limiter and retry policy.
//
// The client is safe for concurrent use.
type Client struct {
	session           *http.Client
	apiKey            string
	localBaseURL      string
	naviBaseURL       string
	geocodeTimeout    time.Duration
	directionsTimeout time.Duration
	limiter           *rate.Limiter
	maxAttempts       int
	initialBackoff    time.Duration
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("kakao api key is empty")
	}

	c := &Client{
		session:           &http.Client{},
		apiKey:            apiKey,
		localBaseURL:      strings.TrimRight(opts.LocalBaseURL, "/"),
		naviBaseURL:       strings.TrimRight(opts.NaviBaseURL, "/"),
		geocodeTimeout:    opts.GeocodeTimeout,
		directionsTimeout: opts.DirectionsTimeout,
		maxAttempts:       opts.MaxAttempts,
		initialBackoff:    opts.InitialBackoff,
	}

	if c.localBaseURL == "" {
		c.localBaseURL = DefaultLocalBaseURL
	}
	if c.naviBaseURL == "" {
		c.naviBaseURL = DefaultNaviBaseURL
	}
	if c.geocodeTimeout <= 0 {
		c.geocodeTimeout = 10 * time.Second
	}
	if c.directionsTimeout <= 0 {
		c.directionsTimeout = 15 * time.Second
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 3
	}
	if c.initialBackoff <= 0 {
		c.initialBackoff = 200 * time.Millisecond
	}

	ratePerSec := opts.RatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)

	return c, nil
}

// AddressSearch returns the structured-address lookup tier.
func (c *Client) AddressSearch() *AddressSearch { return &AddressSearch{client: c} }

// KeywordSearch returns the keyword/place-name lookup tier.
func (c *Client) KeywordSearch() *KeywordSearch { return &KeywordSearch{client: c} }
