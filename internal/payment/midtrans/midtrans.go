package midtrans

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/undangan-next/internal/constants"
)

const defaultTimeout = 15 * time.Second

var (
	ErrConfigInvalid    = errors.New("midtrans config invalid")
	ErrRequestFailed    = errors.New("midtrans request failed")
	ErrResponseInvalid  = errors.New("midtrans response invalid")
	ErrSignatureInvalid = errors.New("midtrans signature invalid")
)

// Config Midtrans Snap 配置
type Config struct {
	ServerKey string
	SnapURL   string
	Timeout   time.Duration
}

// Customer 买家信息
type Customer struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// Item 订单明细
type Item struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// CreateInput Snap 下单输入
type CreateInput struct {
	OrderID     string
	GrossAmount int64
	Customer    Customer
	Items       []Item
}

// CreateResult Snap 下单结果
type CreateResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CustomerDetails    Customer           `json:"customer_details"`
	ItemDetails        []Item             `json:"item_details"`
}

type snapError struct {
	ErrorMessages []string `json:"error_messages"`
}

// ValidateConfig 校验配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ServerKey) == "" {
		return fmt.Errorf("%w: server_key is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SnapURL) == "" {
		return fmt.Errorf("%w: snap_url is required", ErrConfigInvalid)
	}
	return nil
}

// CreateTransaction 创建 Snap 交易，成功时返回 token 与跳转地址
func CreateTransaction(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(input.OrderID) == "" {
		return nil, fmt.Errorf("%w: order_id is required", ErrConfigInvalid)
	}
	if input.GrossAmount <= 0 {
		return nil, fmt.Errorf("%w: gross_amount must be positive", ErrConfigInvalid)
	}
	items := make([]Item, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		items = append(items, item)
	}

	payload, err := json.Marshal(snapRequest{
		TransactionDetails: transactionDetails{OrderID: input.OrderID, GrossAmount: input.GrossAmount},
		CustomerDetails:    input.Customer,
		ItemDetails:        items,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request failed", ErrRequestFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(cfg.SnapURL), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(cfg.ServerKey))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}

	if resp.StatusCode != http.StatusCreated {
		var snapErr snapError
		_ = json.Unmarshal(body, &snapErr)
		if len(snapErr.ErrorMessages) > 0 {
			return nil, fmt.Errorf("%w: status %d: %s", ErrResponseInvalid, resp.StatusCode, strings.Join(snapErr.ErrorMessages, "; "))
		}
		return nil, fmt.Errorf("%w: status %d", ErrResponseInvalid, resp.StatusCode)
	}

	var result CreateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	if strings.TrimSpace(result.Token) == "" || strings.TrimSpace(result.RedirectURL) == "" {
		return nil, fmt.Errorf("%w: missing token or redirect_url", ErrResponseInvalid)
	}
	return &result, nil
}

// Notification 异步通知载荷
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

// Signature 计算 sha512(order_id + status_code + gross_amount + server_key) 的十六进制
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature 校验通知签名
func VerifySignature(n *Notification, serverKey string) error {
	if n == nil {
		return fmt.Errorf("%w: empty notification", ErrSignatureInvalid)
	}
	if strings.TrimSpace(serverKey) == "" {
		return fmt.Errorf("%w: server_key is required", ErrConfigInvalid)
	}
	given := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if given == "" {
		return fmt.Errorf("%w: signature_key is required", ErrSignatureInvalid)
	}
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	if subtle.ConstantTimeCompare([]byte(given), []byte(expected)) != 1 {
		return fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}
	return nil
}

// MapTransactionStatus 网关交易状态映射为订单支付状态，未识别时 ok=false
func MapTransactionStatus(transactionStatus, fraudStatus string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(transactionStatus)) {
	case "capture":
		switch strings.ToLower(strings.TrimSpace(fraudStatus)) {
		case "challenge":
			return constants.PaymentStatusPending, true
		case "accept":
			return constants.PaymentStatusPaid, true
		}
		return "", false
	case "settlement":
		return constants.PaymentStatusPaid, true
	case "deny", "cancel":
		return constants.PaymentStatusCanceled, true
	case "expire":
		return constants.PaymentStatusExpired, true
	case "pending":
		return constants.PaymentStatusPending, true
	default:
		return "", false
	}
}

func basicAuth(serverKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(serverKey) + ":"))
}

// Client 绑定配置的 Snap 客户端
type Client struct {
	cfg Config
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Configured 是否已配置 server key 与接口地址
func (c *Client) Configured() bool {
	return c != nil && ValidateConfig(&c.cfg) == nil
}

// CreateTransaction 创建 Snap 交易
func (c *Client) CreateTransaction(ctx context.Context, input CreateInput) (*CreateResult, error) {
	return CreateTransaction(ctx, &c.cfg, input)
}

// VerifyNotification 校验通知签名
func (c *Client) VerifyNotification(n *Notification) error {
	return VerifySignature(n, c.cfg.ServerKey)
}
