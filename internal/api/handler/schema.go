package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/service"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.Identity `json:"user,omitempty"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	User          *domain.Identity `json:"user,omitempty"`
}

// --- Items ---

type createItemRequest struct {
	Name           string          `json:"name"           validate:"required"`
	Category       string          `json:"category"       validate:"required,oneof=produce meat dairy dry-goods frozen beverages"`
	Quantity       decimal.Decimal `json:"quantity"       validate:"gte=0"`
	Unit           string          `json:"unit"           validate:"required,oneof=lbs kg pieces gallons liters boxes cases"`
	Location       string          `json:"location"       validate:"required"`
	ExpirationDate string          `json:"expirationDate" validate:"omitempty,date"`
	AddedBy        string          `json:"addedBy"`
}

type updateItemRequest struct {
	Name           *string          `json:"name"           validate:"omitempty,min=1"`
	Category       *string          `json:"category"       validate:"omitempty,oneof=produce meat dairy dry-goods frozen beverages"`
	Quantity       *decimal.Decimal `json:"quantity"       validate:"omitempty,gte=0"`
	Unit           *string          `json:"unit"           validate:"omitempty,oneof=lbs kg pieces gallons liters boxes cases"`
	Location       *string          `json:"location"       validate:"omitempty,min=1"`
	ExpirationDate *string          `json:"expirationDate" validate:"omitempty,date"`
	AddedBy        *string          `json:"addedBy"`
}

type adjustQuantityRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

type itemResponse struct {
	domain.StorageItem
	ExpiringSoon bool `json:"expiringSoon"`
}

type itemListResponse struct {
	Items []itemResponse `json:"items"`
	Shown int            `json:"shown"`
	Total int            `json:"total"`
}

type categoryGroupResponse struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
	Items    []itemResponse  `json:"items"`
}

// --- Activities ---

type createActivityRequest struct {
	Action       string `json:"action"       validate:"required,oneof=added updated removed moved"`
	ItemName     string `json:"itemName"     validate:"required"`
	Details      string `json:"details"      validate:"required"`
	EmployeeName string `json:"employeeName"`
}

type activityResponse struct {
	domain.ActivityLogEntry
	Ago string `json:"ago"`
}

type activityListResponse struct {
	Activities []activityResponse `json:"activities"`
	Shown      int                `json:"shown"`
	Total      int                `json:"total"`
}

func toItemResponses(items []domain.StorageItem, now time.Time) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemResponse{StorageItem: it, ExpiringSoon: service.IsExpiringSoon(it, now)}
	}
	return out
}

func toActivityResponses(entries []domain.ActivityLogEntry, now time.Time) []activityResponse {
	out := make([]activityResponse, len(entries))
	for i, e := range entries {
		out[i] = activityResponse{ActivityLogEntry: e, Ago: service.RelativeTime(e.Timestamp, now)}
	}
	return out
}
