package mapper

import (
	"time"

	"github.com/finprodb/shop-api/internal/domains/addresses/domain"
)

type Address struct {
	ID            int64     `json:"id"`
	Label         string    `json:"label"`
	RecipientName string    `json:"recipientName"`
	AddressLine   string    `json:"addressLine"`
	Phone         string    `json:"phone"`
	IsDefault     bool      `json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AddressRequest is shared by create and update; blank fields are ignored on update.
type AddressRequest struct {
	Label         *string `json:"label"`
	RecipientName *string `json:"recipientName"`
	AddressLine   *string `json:"addressLine"`
	Phone         *string `json:"phone"`
	IsDefault     *bool   `json:"isDefault"`
}

func ToFields(req *AddressRequest) *domain.Fields {
	if req == nil {
		return nil
	}
	return &domain.Fields{
		Label:         req.Label,
		RecipientName: req.RecipientName,
		AddressLine:   req.AddressLine,
		Phone:         req.Phone,
		IsDefault:     req.IsDefault,
	}
}

func FromDomain(a *domain.Address) Address {
	if a == nil {
		return Address{}
	}
	return Address{
		ID:            a.ID,
		Label:         a.Label,
		RecipientName: a.RecipientName,
		AddressLine:   a.AddressLine,
		Phone:         a.Phone,
		IsDefault:     a.IsDefault,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func FromDomainList(addresses []*domain.Address) []Address {
	out := make([]Address, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, FromDomain(a))
	}
	return out
}
