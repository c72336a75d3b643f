package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/adapter"
)

// The canonical field orders below are part of the wire contract with the
// gateway and must never be derived from struct layout or map iteration.
// Outbound create requests and inbound IPN callbacks sign different field
// sets; each gets its own explicit builder. A future gateway API revision
// adds a new builder rather than mutating these.

// CreateRequestFields is everything that participates in the outbound
// create-request signature.
type CreateRequestFields struct {
	AccessKey   string
	Amount      int64
	ExtraData   string
	IPNURL      string
	OrderID     string
	OrderInfo   string
	PartnerCode string
	RedirectURL string
	RequestID   string
	RequestType string
}

// BuildCreateCanonical concatenates the create-request fields in the
// gateway's documented order.
func BuildCreateCanonical(f CreateRequestFields) string {
	pairs := []struct{ k, v string }{
		{"accessKey", f.AccessKey},
		{"amount", strconv.FormatInt(f.Amount, 10)},
		{"extraData", f.ExtraData},
		{"ipnUrl", f.IPNURL},
		{"orderId", f.OrderID},
		{"orderInfo", f.OrderInfo},
		{"partnerCode", f.PartnerCode},
		{"redirectUrl", f.RedirectURL},
		{"requestId", f.RequestID},
		{"requestType", f.RequestType},
	}
	return joinPairs(pairs)
}

// BuildIPNCanonical concatenates the callback fields in the gateway's
// documented IPN order. accessKey and partnerCode come from our own config,
// never from the (untrusted) request body.
func BuildIPNCanonical(accessKey, partnerCode string, cb adapter.IPNCallback) string {
	pairs := []struct{ k, v string }{
		{"accessKey", accessKey},
		{"amount", strconv.FormatInt(cb.Amount, 10)},
		{"extraData", cb.ExtraData},
		{"message", cb.Message},
		{"orderId", cb.OrderID},
		{"orderInfo", cb.OrderInfo},
		{"orderType", cb.OrderType},
		{"partnerCode", partnerCode},
		{"payType", cb.PayType},
		{"requestId", cb.RequestID},
		{"responseTime", strconv.FormatInt(cb.ResponseTime, 10)},
		{"resultCode", strconv.Itoa(cb.ResultCode)},
		{"transId", strconv.FormatInt(cb.TransID, 10)},
	}
	return joinPairs(pairs)
}

func joinPairs(pairs []struct{ k, v string }) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.k)
		b.WriteByte('=')
		b.WriteString(p.v)
	}
	return b.String()
}

// Codec signs and verifies canonical strings with the shared HMAC secret.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign returns the lower-hex HMAC-SHA256 of the canonical string.
func (c *Codec) Sign(canonical string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the signature and compares in constant time. A plain
// string comparison would leak a timing side-channel to callers probing
// the IPN endpoint.
func (c *Codec) Verify(canonical, provided string) bool {
	decoded, err := hex.DecodeString(strings.ToLower(provided))
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(canonical))
	return hmac.Equal(h.Sum(nil), decoded)
}
