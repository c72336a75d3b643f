package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/config"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/adapter"
)

// requestType for one-off wallet captures; the only flow this core uses.
const requestTypeCapture = "captureWallet"

var _ adapter.PaymentGateway = (*MoMoGateway)(nil)

// MoMoGateway implements the gateway port over direct HTTP calls, signing
// outbound requests and verifying inbound IPN callbacks with the shared
// HMAC secret.
type MoMoGateway struct {
	cfg    config.MoMoConfig
	codec  *Codec
	client *http.Client
	log    *zerolog.Logger
}

func NewMoMoGateway(cfg config.MoMoConfig, logger *zerolog.Logger) *MoMoGateway {
	return &MoMoGateway{
		cfg:    cfg,
		codec:  NewCodec(cfg.SecretKey),
		client: &http.Client{},
		log:    logger,
	}
}

func (g *MoMoGateway) Name() string { return "momo" }

// NewOrderReference returns "<userID>-<ULID>". ULIDs are unique across
// processes, so a ledger conflict means a caller bug or an astronomically
// unlikely collision; either way the caller regenerates and retries.
func (g *MoMoGateway) NewOrderReference(userID string) string {
	return userID + "-" + ulid.Make().String()
}

type createRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type createResponse struct {
	PayURL     string `json:"payUrl"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// CreateLink opens a payment session with the provider. No ledger row is
// written here: on any error the caller simply retries with a fresh order
// reference, so a request the gateway never saw leaves no orphaned row.
func (g *MoMoGateway) CreateLink(ctx context.Context, req adapter.CreateLinkRequest) (*adapter.CreateLinkResult, error) {
	requestID := ulid.Make().String()

	canonical := BuildCreateCanonical(CreateRequestFields{
		AccessKey:   g.cfg.AccessKey,
		Amount:      req.Amount,
		ExtraData:   req.ExtraData,
		IPNURL:      g.cfg.IPNURL,
		OrderID:     req.OrderReference,
		OrderInfo:   req.OrderInfo,
		PartnerCode: g.cfg.PartnerCode,
		RedirectURL: g.cfg.RedirectURL,
		RequestID:   requestID,
		RequestType: requestTypeCapture,
	})

	body := createRequest{
		PartnerCode: g.cfg.PartnerCode,
		AccessKey:   g.cfg.AccessKey,
		RequestID:   requestID,
		Amount:      req.Amount,
		OrderID:     req.OrderReference,
		OrderInfo:   req.OrderInfo,
		RedirectURL: g.cfg.RedirectURL,
		IPNURL:      g.cfg.IPNURL,
		ExtraData:   req.ExtraData,
		RequestType: requestTypeCapture,
		Signature:   g.codec.Sign(canonical),
		Lang:        "vi",
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	url := g.cfg.Endpoint + "/v2/gateway/api/create"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send create request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read create response: %w", err)
	}

	var out createResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshal create response: %w, body: %s", err, string(respBody))
	}

	if out.ResultCode != 0 {
		g.log.Warn().Int("result_code", out.ResultCode).Str("order_ref", req.OrderReference).Msg("gateway declined create request")
		return nil, fmt.Errorf("momo create: code %d: %s: %w", out.ResultCode, out.Message, domain.ErrGatewayDeclined)
	}
	if out.PayURL == "" {
		return nil, fmt.Errorf("momo create: empty payUrl: %w", domain.ErrGatewayDeclined)
	}

	return &adapter.CreateLinkResult{PayURL: out.PayURL, RequestID: requestID}, nil
}

// VerifyIPN rebuilds the canonical string from the callback's own values and
// checks the supplied signature. This runs before any ledger access.
func (g *MoMoGateway) VerifyIPN(cb adapter.IPNCallback) bool {
	canonical := BuildIPNCanonical(g.cfg.AccessKey, g.cfg.PartnerCode, cb)
	return g.codec.Verify(canonical, cb.Signature)
}
