package khalti

//go:generate go run go.uber.org/mock/mockgen -source=./khalti.go -destination=./mocks/khalti_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"innstay/config"
	"innstay/infras/otel"
	"innstay/shared"
	"innstay/shared/cache"
	"innstay/shared/constant"
	"innstay/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	initiatePath   = "/epayment/initiate/"
	cacheKeyPrefix = "payment:link"

	defaultTimeoutSeconds = 15
	defaultLinkTTLMinutes = 30
)

// InitiateRequest is the payload for the gateway's initiate endpoint.
type InitiateRequest struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            int    `json:"amount"`
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

// Session is a gateway-issued redirect target for completing payment.
type Session struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

type Gateway interface {
	// Initiate always calls the gateway and caches the issued link under the order id.
	Initiate(ctx context.Context, req InitiateRequest) (Session, error)
	// Session reuses a previously issued link for the same order when it has not
	// expired yet, and falls back to a fresh Initiate call otherwise.
	Session(ctx context.Context, req InitiateRequest) (Session, error)
}

type gatewayImpl struct {
	cfg    *config.Config
	client *http.Client
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(cfg *config.Config, redisCache cache.RedisCache, otl otel.Otel) Gateway {
	timeout := cfg.Payment.Khalti.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	return &gatewayImpl{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		cache: redisCache,
		otel:  otl,
	}
}

func (g *gatewayImpl) Initiate(ctx context.Context, req InitiateRequest) (res Session, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".khalti.Initiate")
	defer scope.End()
	defer scope.TraceIfError(err)

	body, err := json.Marshal(req)
	if err != nil {
		return res, fmt.Errorf("failed to marshal initiate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Payment.Khalti.BaseURL+initiatePath, bytes.NewReader(body))
	if err != nil {
		return res, fmt.Errorf("failed to build initiate request: %w", err)
	}

	httpReq.Header.Set(constant.RequestHeaderAuthorization, "Key "+g.cfg.Payment.Khalti.SecretKey)
	httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("order", req.PurchaseOrderID).Msg("payment gateway call failed")

		if isTimeout(err) {
			return res, failure.Gateway("payment gateway timed out") //nolint:wrapcheck
		}

		return res, failure.Gateway("payment gateway unreachable") //nolint:wrapcheck
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error().Int("status", resp.StatusCode).Str("order", req.PurchaseOrderID).Msg("payment gateway rejected initiate call")

		return res, failure.Gateway(fmt.Sprintf("payment gateway returned status %d", resp.StatusCode)) //nolint:wrapcheck
	}

	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, failure.Gateway("payment gateway returned malformed response") //nolint:wrapcheck
	}

	if res.PaymentURL == constant.Empty {
		return res, failure.Gateway("payment gateway returned no payment URL") //nolint:wrapcheck
	}

	g.saveLink(ctx, req.PurchaseOrderID, res)

	return res, nil
}

func (g *gatewayImpl) Session(ctx context.Context, req InitiateRequest) (res Session, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".khalti.Session")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheKeyPrefix, req.PurchaseOrderID)

	err = g.cache.Get(ctx, cacheKey, &res)
	if err == nil && res.PaymentURL != constant.Empty {
		log.Info().Str("order", req.PurchaseOrderID).Msg("reusing cached payment link")

		return res, nil
	}

	return g.Initiate(ctx, req)
}

// saveLink caches the issued link under the order id; the TTL bounds how long
// a re-requested session may reuse it. Failures only cost a redundant gateway
// call later, so they are logged and swallowed.
func (g *gatewayImpl) saveLink(ctx context.Context, orderID string, session Session) {
	ttl := g.cfg.Payment.Khalti.LinkTTLMinutes
	if ttl <= 0 {
		ttl = defaultLinkTTLMinutes
	}

	cacheKey := shared.BuildCacheKey(cacheKeyPrefix, orderID)

	if err := g.cache.Save(ctx, cacheKey, session, ttl*60); err != nil {
		log.Error().Err(err).Str("order", orderID).Msg("failed to cache payment link")
	}
}

func isTimeout(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded)
}
