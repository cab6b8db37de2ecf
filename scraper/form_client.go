// scraper/form_client.go
package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gewnthar/airtraffic/config"
	"github.com/gewnthar/airtraffic/models"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// FormClient drives the TranStats Data Elements form: one GET for the hidden
// tokens, then one POST per requested metric on the same session.
type FormClient struct {
	landingURL string
	submitURL  string
	userAgent  string
	timeout    time.Duration
	interval   time.Duration
}

// NewFormClient builds a client from the portal section of the configuration.
func NewFormClient(cfg config.PortalConfig) *FormClient {
	return &FormClient{
		landingURL: cfg.LandingURL,
		submitURL:  cfg.SubmitURL,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.RequestTimeout,
		interval:   cfg.SubmitInterval,
	}
}

// Session is one cookie-carrying conversation with the portal. Not safe for
// concurrent use: submissions on a session must run in order.
type Session struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewSession opens a fresh session with its own cookie jar.
func (c *FormClient) NewSession() *Session {
	client := resty.New() // resty gives every client its own cookie jar
	client.SetHeader("User-Agent", c.userAgent)
	client.SetTimeout(c.timeout)

	limit := rate.Inf
	if c.interval > 0 {
		limit = rate.Every(c.interval)
	}
	return &Session{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Handshake loads the landing page and captures the form tokens.
func (c *FormClient) Handshake(ctx context.Context, s *Session) (models.TokenSet, error) {
	log.Printf("Scraper: Loading landing page %s\n", c.landingURL)

	resp, err := s.client.R().SetContext(ctx).Get(c.landingURL)
	if err != nil {
		return models.TokenSet{}, fmt.Errorf("failed to get landing page %s: %w", c.landingURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.TokenSet{}, fmt.Errorf("failed to get landing page %s: status code %d", c.landingURL, resp.StatusCode())
	}

	tokens, err := ExtractTokens(resp.String())
	if err != nil {
		return models.TokenSet{}, fmt.Errorf("failed to capture form tokens: %w", err)
	}
	return tokens, nil
}

// FormData builds the post-back fields for one metric. The passenger submission
// uses the Submit button; linked metrics are selected through __EVENTTARGET.
func FormData(tokens models.TokenSet, airline, airport string, metric models.Metric) map[string]string {
	form := map[string]string{
		"__EVENTTARGET":      "",
		"__EVENTARGUMENT":    "",
		ViewStateID:          tokens.ViewState,
		EventValidationID:    tokens.EventValidation,
		ViewStateGeneratorID: tokens.ViewStateGenerator,
		"CarrierList":        airline,
		"AirportList":        airport,
	}
	if metric.IsPrimary() {
		form["Submit"] = "Submit"
	} else {
		form["__EVENTTARGET"] = "Link_" + string(metric)
	}
	return form
}

// Submit posts the form for one metric and returns the raw response markup.
func (c *FormClient) Submit(ctx context.Context, s *Session, tokens models.TokenSet, airline, airport string, metric models.Metric) (models.RawDocument, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return models.RawDocument{}, fmt.Errorf("waiting to submit %s form: %w", metric, err)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(FormData(tokens, airline, airport, metric)).
		Post(c.submitURL)
	if err != nil {
		return models.RawDocument{}, fmt.Errorf("failed to submit %s form for %s-%s: %w", metric, airline, airport, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.RawDocument{}, fmt.Errorf("failed to submit %s form for %s-%s: status code %d", metric, airline, airport, resp.StatusCode())
	}

	log.Printf("Scraper: %s response for %s-%s received (%d bytes)\n", metric, airline, airport, len(resp.Body()))
	return models.RawDocument{
		Airline: airline,
		Airport: airport,
		Metric:  metric,
		HTML:    resp.String(),
	}, nil
}

// FetchDocuments opens a new session, captures the tokens once and submits the
// passenger form followed by each additional metric in the order given. The same
// tokens are reused for every submission of the session.
func (c *FormClient) FetchDocuments(ctx context.Context, airline, airport string, additional []models.Metric) ([]models.RawDocument, error) {
	s := c.NewSession()

	tokens, err := c.Handshake(ctx, s)
	if err != nil {
		return nil, err
	}

	metrics := append([]models.Metric{models.MetricPassengers}, additional...)
	docs := make([]models.RawDocument, 0, len(metrics))
	for _, metric := range metrics {
		doc, err := c.Submit(ctx, s, tokens, airline, airport, metric)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
