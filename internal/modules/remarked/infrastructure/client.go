package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"stolikiApi/internal/modules/remarked/domain"
)

const (
	widgetEndpoint = "/ApiReservesWidget"
	rpcEndpoint    = "/api"

	// The provider serves everything through one widget endpoint except
	// getEventTags, which only exists behind a JSON-RPC 2.0 facade on a
	// separate path. The client mirrors that inconsistency instead of
	// papering over it.
	rpcEventTagsMethod = "ReservesWidgetApi.getEventTags"

	defaultTokenTTL = 55 * time.Minute
)

// Client is the typed facade over the Remarked reserves widget API: one
// method per provider operation, each building the operation envelope and
// delegating to the Gateway. Gateway errors pass through unchanged.
type Client struct {
	gateway *Gateway
	tokens  *tokenCache
}

func NewClient(gateway *Gateway, tokenTTL time.Duration) *Client {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &Client{gateway: gateway, tokens: newTokenCache(tokenTTL)}
}

type tokenRequest struct {
	Method         string `json:"method"`
	PointID        int    `json:"point_id"`
	AdditionalInfo bool   `json:"additional_info,omitempty"`
	UniqueID       string `json:"unique_id,omitempty"`
}

// Token issues (or serves from cache) a bearer token for a venue point.
// AdditionalInfo answers bypass the cache in both directions: the richer
// response must not masquerade as a plain cached token.
func (c *Client) Token(ctx context.Context, pointID int, opts domain.TokenOptions) (*domain.TokenInfo, error) {
	if !opts.AdditionalInfo {
		if token, ok := c.tokens.get(pointID); ok {
			slog.Debug("remarked token cache hit", slog.Int("pointId", pointID))
			return &domain.TokenInfo{Token: token}, nil
		}
	}

	raw, err := c.gateway.Send(ctx, widgetEndpoint, tokenRequest{
		Method:         "getToken",
		PointID:        pointID,
		AdditionalInfo: opts.AdditionalInfo,
		UniqueID:       opts.UniqueID,
	})
	if err != nil {
		return nil, err
	}

	var info domain.TokenInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("remarked: decode getToken response: %w", err)
	}
	if !opts.AdditionalInfo {
		c.tokens.set(pointID, info.Token)
	}
	return &info, nil
}

// InvalidateToken drops the cached token for a venue point. Callers use it
// after a downstream call failed with a provider 401/403.
func (c *Client) InvalidateToken(pointID int) {
	c.tokens.invalidate(pointID)
}

type daysStatesRequest struct {
	Method      string `json:"method"`
	Token       string `json:"token"`
	From        string `json:"from"`
	To          string `json:"to"`
	GuestsCount int    `json:"guests_count"`
}

func (c *Client) DaysStates(ctx context.Context, token string, period domain.Period, guests int) ([]domain.DayState, error) {
	raw, err := c.gateway.Send(ctx, widgetEndpoint, daysStatesRequest{
		Method:      "getDaysStates",
		Token:       token,
		From:        period.From,
		To:          period.To,
		GuestsCount: guests,
	})
	if err != nil {
		return nil, err
	}
	var res struct {
		Days []domain.DayState `json:"days"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("remarked: decode getDaysStates response: %w", err)
	}
	return res.Days, nil
}

type slotsRequest struct {
	Method       string `json:"method"`
	Token        string `json:"token"`
	From         string `json:"from"`
	To           string `json:"to"`
	GuestsCount  int    `json:"guests_count"`
	WithRooms    *bool  `json:"with_rooms,omitempty"`
	SlotDuration *int   `json:"slot_duration,omitempty"`
}

func (c *Client) Slots(ctx context.Context, token string, period domain.Period, guests int, opts domain.SlotOptions) ([]domain.Slot, error) {
	raw, err := c.gateway.Send(ctx, widgetEndpoint, slotsRequest{
		Method:       "getSlots",
		Token:        token,
		From:         period.From,
		To:           period.To,
		GuestsCount:  guests,
		WithRooms:    opts.WithRooms,
		SlotDuration: opts.SlotDuration,
	})
	if err != nil {
		return nil, err
	}
	var res struct {
		Slots []domain.Slot `json:"slots"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("remarked: decode getSlots response: %w", err)
	}
	return res.Slots, nil
}

type smsCodeRequest struct {
	Method   string `json:"method"`
	Token    string `json:"token"`
	Phone    string `json:"phone"`
	UniqueID string `json:"unique_id,omitempty"`
}

// SendSMSCode asks the provider to dispatch a confirmation challenge to
// the guest's phone. Only venues with SMS confirmation enabled need it.
func (c *Client) SendSMSCode(ctx context.Context, token, phone, uniqueID string) error {
	_, err := c.gateway.Send(ctx, widgetEndpoint, smsCodeRequest{
		Method:   "getSMSCode",
		Token:    token,
		Phone:    phone,
		UniqueID: uniqueID,
	})
	return err
}

type createReserveRequest struct {
	Method      string `json:"method"`
	Token       string `json:"token"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	GuestsCount int    `json:"guests_count"`
	Duration    *int   `json:"duration,omitempty"`
	Comment     string `json:"comment,omitempty"`
	TableIDs    []int  `json:"table_ids,omitempty"`
	EventTags   []int  `json:"event_tags,omitempty"`
	Source      string `json:"source,omitempty"`
	ConfirmCode string `json:"confirm_code,omitempty"`
	UniqueID    string `json:"unique_id,omitempty"`
}

// CreateReserve submits a reservation. confirmCode is only sent when the
// caller passed one through from the SMS challenge.
func (c *Client) CreateReserve(ctx context.Context, token string, data domain.ReserveData, confirmCode, uniqueID string) (*domain.ReserveResult, error) {
	raw, err := c.gateway.Send(ctx, widgetEndpoint, createReserveRequest{
		Method:      "createReserve",
		Token:       token,
		Name:        data.Name,
		Phone:       data.Phone,
		Date:        data.Date,
		Time:        data.Time,
		GuestsCount: data.GuestsCount,
		Duration:    data.Duration,
		Comment:     data.Comment,
		TableIDs:    data.TableIDs,
		EventTags:   data.EventTags,
		Source:      data.Source,
		ConfirmCode: confirmCode,
		UniqueID:    uniqueID,
	})
	if err != nil {
		return nil, err
	}
	var result domain.ReserveResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("remarked: decode createReserve response: %w", err)
	}
	return &result, nil
}

type reservesByPhoneRequest struct {
	Method      string `json:"method"`
	Token       string `json:"token"`
	Phone       string `json:"phone"`
	GuestsCount int    `json:"guests_count"`
	Limit       *int   `json:"limit,omitempty"`
	Offset      *int   `json:"offset,omitempty"`
	Sort        string `json:"sort,omitempty"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
}

func (c *Client) ReservesByPhone(ctx context.Context, token, phone string, guests int, filters domain.ReserveFilters) (*domain.ReserveList, error) {
	req := reservesByPhoneRequest{
		Method:      "getReservesByPhone",
		Token:       token,
		Phone:       phone,
		GuestsCount: guests,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
		Sort:        filters.Sort,
	}
	if filters.Period != nil {
		req.From = filters.Period.From
		req.To = filters.Period.To
	}
	raw, err := c.gateway.Send(ctx, widgetEndpoint, req)
	if err != nil {
		return nil, err
	}
	var list domain.ReserveList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("remarked: decode getReservesByPhone response: %w", err)
	}
	return &list, nil
}

type changeStatusRequest struct {
	Method       string `json:"method"`
	Token        string `json:"token"`
	ReserveID    int64  `json:"reserve_id"`
	Status       string `json:"status"`
	CancelReason string `json:"cancel_reason,omitempty"`
}

// ChangeReserveStatus moves a reservation into a new status. The cancel
// reason is only meaningful for cancellations and is dropped otherwise.
func (c *Client) ChangeReserveStatus(ctx context.Context, token string, reserveID int64, status, cancelReason string) error {
	if status != domain.ReserveStatusCanceled {
		cancelReason = ""
	}
	_, err := c.gateway.Send(ctx, widgetEndpoint, changeStatusRequest{
		Method:       "changeReserveStatus",
		Token:        token,
		ReserveID:    reserveID,
		Status:       status,
		CancelReason: cancelReason,
	})
	return err
}

type reserveByIDRequest struct {
	Method    string `json:"method"`
	Token     string `json:"token"`
	ReserveID int64  `json:"reserve_id"`
}

func (c *Client) ReserveByID(ctx context.Context, token string, reserveID int64) (*domain.Reserve, error) {
	raw, err := c.gateway.Send(ctx, widgetEndpoint, reserveByIDRequest{
		Method:    "getReserveById",
		Token:     token,
		ReserveID: reserveID,
	})
	if err != nil {
		return nil, err
	}
	var reserve domain.Reserve
	if err := json.Unmarshal(raw, &reserve); err != nil {
		return nil, fmt.Errorf("remarked: decode getReserveById response: %w", err)
	}
	return &reserve, nil
}

func (c *Client) IsReserveRead(ctx context.Context, token string, reserveID int64) (bool, error) {
	raw, err := c.gateway.Send(ctx, widgetEndpoint, reserveByIDRequest{
		Method:    "isReserveRead",
		Token:     token,
		ReserveID: reserveID,
	})
	if err != nil {
		return false, err
	}
	var res struct {
		Read bool `json:"read"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return false, fmt.Errorf("remarked: decode isReserveRead response: %w", err)
	}
	return res.Read, nil
}

type rpcRequest struct {
	Method  string    `json:"method"`
	JSONRPC string    `json:"jsonrpc"`
	Params  rpcParams `json:"params"`
	ID      string    `json:"id,omitempty"`
}

type rpcParams struct {
	Token string `json:"token"`
}

func (c *Client) EventTags(ctx context.Context, token string) ([]domain.EventTag, error) {
	raw, err := c.gateway.Send(ctx, rpcEndpoint, rpcRequest{
		Method:  rpcEventTagsMethod,
		JSONRPC: "2.0",
		Params:  rpcParams{Token: token},
	})
	if err != nil {
		return nil, err
	}
	var res struct {
		Result []domain.EventTag `json:"result"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("remarked: decode getEventTags response: %w", err)
	}
	return res.Result, nil
}
