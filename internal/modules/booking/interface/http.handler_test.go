package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"stolikiApi/internal/modules/booking/application/port"
	"stolikiApi/internal/modules/booking/application/usecase"
	bookingdomain "stolikiApi/internal/modules/booking/domain"
	remarked "stolikiApi/internal/modules/remarked/domain"
	"stolikiApi/internal/shared/auth"
)

type memoryVenueStore struct {
	venues map[string]bookingdomain.Venue
}

func (s *memoryVenueStore) FindByID(_ context.Context, id string) (*bookingdomain.Venue, error) {
	venue, ok := s.venues[id]
	if !ok {
		return nil, port.ErrVenueNotFound
	}
	return &venue, nil
}

func (s *memoryVenueStore) FindActive(context.Context) ([]bookingdomain.Venue, error) {
	var active []bookingdomain.Venue
	for _, v := range s.venues {
		if v.Active {
			active = append(active, v)
		}
	}
	return active, nil
}

type cannedProvider struct {
	reserveErr error
	days       []remarked.DayState
}

func (p *cannedProvider) Token(context.Context, int, remarked.TokenOptions) (*remarked.TokenInfo, error) {
	return &remarked.TokenInfo{Token: "tok"}, nil
}

func (p *cannedProvider) InvalidateToken(int) {}

func (p *cannedProvider) CreateReserve(context.Context, string, remarked.ReserveData, string, string) (*remarked.ReserveResult, error) {
	if p.reserveErr != nil {
		return nil, p.reserveErr
	}
	return &remarked.ReserveResult{ReserveID: 12345}, nil
}

func (p *cannedProvider) DaysStates(context.Context, string, remarked.Period, int) ([]remarked.DayState, error) {
	return p.days, nil
}

func (p *cannedProvider) Slots(context.Context, string, remarked.Period, int, remarked.SlotOptions) ([]remarked.Slot, error) {
	return nil, nil
}

func (p *cannedProvider) SendSMSCode(context.Context, string, string, string) error { return nil }

func (p *cannedProvider) ReservesByPhone(context.Context, string, string, int, remarked.ReserveFilters) (*remarked.ReserveList, error) {
	return &remarked.ReserveList{Total: 1, Reserves: []remarked.Reserve{{ID: 12345, Status: remarked.ReserveStatusNew}}}, nil
}

func (p *cannedProvider) ChangeReserveStatus(context.Context, string, int64, string, string) error {
	return nil
}

func (p *cannedProvider) ReserveByID(context.Context, string, int64) (*remarked.Reserve, error) {
	return &remarked.Reserve{ID: 12345}, nil
}

func (p *cannedProvider) IsReserveRead(context.Context, string, int64) (bool, error) {
	return true, nil
}

func (p *cannedProvider) EventTags(context.Context, string) ([]remarked.EventTag, error) {
	return nil, nil
}

func testVenues() *memoryVenueStore {
	return &memoryVenueStore{venues: map[string]bookingdomain.Venue{
		"V1": {ID: "V1", Title: "Север", PointID: 203003, Active: true},
		"V2": {ID: "V2", Title: "Без брони", Active: true},
	}}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func bookingEcho(provider *cannedProvider) *echo.Echo {
	e := echo.New()
	venues := testVenues()
	create := usecase.NewCreateReservationUseCase(venues, provider, nil)
	availability := usecase.NewAvailabilityUseCase(venues, provider)
	e.GET("/api/v1/restaurants", NewListRestaurantsHandler(venues))
	e.POST("/api/v1/booking", NewCreateBookingHandler(create))
	e.GET("/api/v1/booking/:restaurantId/days", NewDaysStatesHandler(availability))
	return e
}

func TestListRestaurantsOnlyShowsBookableVenues(t *testing.T) {
	e := bookingEcho(&cannedProvider{})

	rec, env := doRequest(t, e, http.MethodGet, "/api/v1/restaurants", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Restaurants []struct {
			ID string `json:"id"`
		} `json:"restaurants"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Restaurants) != 1 || payload.Restaurants[0].ID != "V1" {
		t.Fatalf("unexpected listing: %s", env.Data)
	}
}

func TestCreateBookingReturnsSuccessEnvelope(t *testing.T) {
	e := bookingEcho(&cannedProvider{})

	body := `{"restaurantId":"V1","name":"Ivan","phone":"+79991234567","date":"2024-06-25","time":"19:00","guests_count":4}`
	rec, env := doRequest(t, e, http.MethodPost, "/api/v1/booking", body, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("expected success envelope: %s", rec.Body.String())
	}
	var result bookingdomain.BookingResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.ReserveID != 12345 {
		t.Fatalf("unexpected reserve id: %d", result.ReserveID)
	}
	if result.Message == "" {
		t.Fatal("expected a user-facing message")
	}
}

func TestCreateBookingMissingFieldsIs400(t *testing.T) {
	e := bookingEcho(&cannedProvider{})

	rec, env := doRequest(t, e, http.MethodPost, "/api/v1/booking", `{"restaurantId":"V1"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Success {
		t.Fatal("expected failure envelope")
	}
	if !strings.Contains(env.Message, "обязательные поля") {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestCreateBookingUnknownVenueIs404(t *testing.T) {
	e := bookingEcho(&cannedProvider{})

	body := `{"restaurantId":"nope","name":"Ivan","phone":"+79991234567","date":"2024-06-25","time":"19:00","guests_count":2}`
	rec, env := doRequest(t, e, http.MethodPost, "/api/v1/booking", body, nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.Message != msgVenueNotFound {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestCreateBookingProviderRejectionKeepsMessage(t *testing.T) {
	provider := &cannedProvider{reserveErr: remarked.NewAPIError(400, "Указанное время уже занято")}
	e := bookingEcho(provider)

	body := `{"restaurantId":"V1","name":"Ivan","phone":"+79991234567","date":"2024-06-25","time":"19:00","guests_count":2}`
	rec, env := doRequest(t, e, http.MethodPost, "/api/v1/booking", body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Message != "Указанное время уже занято" {
		t.Fatalf("provider message must reach the user, got %q", env.Message)
	}
}

func TestDaysStatesQueryValidation(t *testing.T) {
	e := bookingEcho(&cannedProvider{})

	rec, _ := doRequest(t, e, http.MethodGet, "/api/v1/booking/V1/days?from=2024-06-25", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing to should be 400, got %d", rec.Code)
	}

	rec, _ = doRequest(t, e, http.MethodGet, "/api/v1/booking/V1/days?from=2024-06-26&to=2024-06-25&guests_count=2", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted period should be 400, got %d", rec.Code)
	}
}

func TestDaysStatesHappyPath(t *testing.T) {
	provider := &cannedProvider{days: []remarked.DayState{{Date: "2024-06-25", State: "free"}}}
	e := bookingEcho(provider)

	rec, env := doRequest(t, e, http.MethodGet, "/api/v1/booking/V1/days?from=2024-06-25&to=2024-06-26&guests_count=2", "", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(env.Data), `"2024-06-25"`) {
		t.Fatalf("days payload missing: %s", env.Data)
	}
}

func officeEcho(secret string) *echo.Echo {
	e := echo.New()
	manage := usecase.NewManageReservesUseCase(testVenues(), &cannedProvider{}, nil)
	office := e.Group("/api/v1/office", RequireStaffToken(auth.NewJWTValidator(secret)))
	office.GET("/reserves", NewListReservesHandler(manage))
	office.GET("/reserves/:id/read", NewReserveReadHandler(manage))
	return e
}

func staffToken(t *testing.T, secret string) string {
	t.Helper()
	claims := auth.Claims{
		Roles: []string{"hostess"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestOfficeRoutesRejectMissingToken(t *testing.T) {
	e := officeEcho("test-secret")

	rec, env := doRequest(t, e, http.MethodGet, "/api/v1/office/reserves?restaurantId=V1&phone=%2B79991234567", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env.Success {
		t.Fatal("expected failure envelope")
	}
}

func TestOfficeRoutesRejectForeignSignature(t *testing.T) {
	e := officeEcho("test-secret")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+staffToken(t, "other-secret"))
	rec, _ := doRequest(t, e, http.MethodGet, "/api/v1/office/reserves?restaurantId=V1&phone=%2B79991234567", "", header)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOfficeListReservesWithValidToken(t *testing.T) {
	e := officeEcho("test-secret")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+staffToken(t, "test-secret"))
	rec, env := doRequest(t, e, http.MethodGet, "/api/v1/office/reserves?restaurantId=V1&phone=%2B79991234567", "", header)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(env.Data), "12345") {
		t.Fatalf("reserve list payload missing: %s", env.Data)
	}
}

func TestOfficeReserveReadValidatesID(t *testing.T) {
	e := officeEcho("test-secret")

	header := http.Header{}
	header.Set("Authorization", "Bearer "+staffToken(t, "test-secret"))
	rec, _ := doRequest(t, e, http.MethodGet, "/api/v1/office/reserves/abc/read?restaurantId=V1", "", header)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}
