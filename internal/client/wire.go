package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anupgautam23/oms-frontend/internal/domain"
)

// wireID accepts identifiers sent either as JSON strings or as numbers.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier %s is neither string nor number", data)
	}
	*id = wireID(n.String())
	return nil
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// wireTime accepts RFC 3339 and zone-less timestamps; the latter are UTC.
type wireTime time.Time

func (t *wireTime) UnmarshalJSON(data []byte) error {
	var raw string
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = wireTime{}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = wireTime{}
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			*t = wireTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// LoginResponse is the credential exchange answer.
type LoginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

// BearerToken returns whichever token field the identity service filled.
func (r LoginResponse) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

type meResponse struct {
	ID       wireID   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Roles    []string `json:"roles"`
}

func (m meResponse) profile() (domain.Profile, error) {
	if m.ID == "" {
		return domain.Profile{}, fmt.Errorf("identity payload has no id")
	}
	name := m.Username
	if name == "" {
		name = m.Name
	}
	role := m.Role
	if role == "" && len(m.Roles) > 0 {
		role = m.Roles[0]
		for _, r := range m.Roles {
			if strings.EqualFold(strings.TrimPrefix(strings.ToUpper(r), "ROLE_"), "ADMIN") {
				role = r
				break
			}
		}
	}
	return domain.Profile{
		ID:         string(m.ID),
		Name:       name,
		Email:      m.Email,
		ServerRole: role,
	}, nil
}

type createOrderRequest struct {
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
}

type orderPayload struct {
	ID          wireID          `json:"id"`
	UserID      wireID          `json:"userId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	CreatedAt   wireTime        `json:"createdAt"`
	UpdatedAt   wireTime        `json:"updatedAt"`
}

func (p orderPayload) toDomain() (domain.Order, error) {
	if p.ID == "" {
		return domain.Order{}, fmt.Errorf("order payload has no id")
	}
	status, err := domain.ParseOrderStatus(p.Status)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		ID:          string(p.ID),
		UserID:      string(p.UserID),
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		Price:       p.Price,
		TotalAmount: p.TotalAmount,
		Status:      status,
		CreatedAt:   time.Time(p.CreatedAt),
		UpdatedAt:   time.Time(p.UpdatedAt),
	}, nil
}
