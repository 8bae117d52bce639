package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// GatewayError wraps a failure reported by (or while talking to) Razorpay.
// The message is for server-side diagnostics and must not be shown verbatim
// to end users.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return "razorpay: " + e.Message
}

// GatewayOrder is the payment intent Razorpay hands back for a checkout.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client talks to the Razorpay Orders API. Construct one at startup and pass
// it into the order service; there is no package-level instance.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *resty.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		http:      resty.New().SetTimeout(30 * time.Second),
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// KeyID is the public half of the credentials; the checkout page needs it to
// open the Razorpay widget.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers a payment intent for the given amount. Razorpay wants
// the amount in paise, so the rupee amount is scaled by 100 before transmission.
func (c *Client) CreateOrder(amount float64, receipt string) (*GatewayOrder, error) {
	body := map[string]any{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  receipt,
	}

	resp, err := c.http.R().
		SetBasicAuth(c.keyID, c.keySecret).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.baseURL + "/orders")
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}

	if resp.StatusCode() != 200 {
		return nil, &GatewayError{Message: fmt.Sprintf("order request failed with status %d: %s", resp.StatusCode(), resp.Body())}
	}

	var order GatewayOrder
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, &GatewayError{Message: "failed to parse order response: " + err.Error()}
	}
	if order.ID == "" {
		return nil, &GatewayError{Message: "order id missing in response"}
	}

	return &order, nil
}

// VerifySignature checks the signature Razorpay sends back after a payment:
// an HMAC-SHA256 over "orderID|paymentID" keyed with the shared secret. The
// comparison is constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
