package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beratbaran/flyticket/internal/domain"
	"github.com/beratbaran/flyticket/internal/service/tickets"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTicketUseCase struct {
	mock.Mock
}

func (m *MockTicketUseCase) Create(ctx context.Context, input tickets.CreateTicketInput) (*domain.Ticket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) Update(ctx context.Context, id string, patch tickets.UpdateTicketInput) (*domain.Ticket, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTicketUseCase) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) List(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) ListByFlight(ctx context.Context, flightID string) ([]domain.Ticket, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) ListByEmail(ctx context.Context, email string) ([]domain.Ticket, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) CompleteArrived(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func TestTicketHandler_create(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := tickets.CreateTicketInput{
		PassengerName:    "Ada",
		PassengerSurname: "Lovelace",
		PassengerEmail:   "ada@example.com",
		FlightID:         "flight-1",
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Ticket{
		ID:               "t-1",
		PassengerName:    "Ada",
		PassengerSurname: "Lovelace",
		PassengerEmail:   "ada@example.com",
		FlightID:         "flight-1",
		Status:           domain.TicketStatusConfirmed,
	}
	mockService.On("Create", c.Request.Context(), input).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Ticket
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "t-1", response.ID)
	assert.Equal(t, domain.TicketStatusConfirmed, response.Status)

	mockService.AssertExpectations(t)
}

func TestTicketHandler_create_NoCapacity(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := tickets.CreateTicketInput{
		PassengerName:    "Ada",
		PassengerSurname: "Lovelace",
		PassengerEmail:   "ada@example.com",
		FlightID:         "flight-1",
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), input).Return(nil, domain.ErrNoCapacity)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketHandler_create_FlightNotFound(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(tickets.CreateTicketInput{
		PassengerName:    "Ada",
		PassengerSurname: "Lovelace",
		PassengerEmail:   "ada@example.com",
		FlightID:         "missing",
	})
	c.Request = httptest.NewRequest("POST", "/api/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).Return(nil, domain.ErrNotFound)

	handler.create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketHandler_create_ValidationError(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(tickets.CreateTicketInput{PassengerEmail: "not-an-email"})
	c.Request = httptest.NewRequest("POST", "/api/tickets", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.Anything).
		Return(nil, domain.NewValidationError("passenger_email", "invalid email format"))

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "passenger_email")
}

func TestTicketHandler_delete(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "t-1"}}
	c.Request = httptest.NewRequest("DELETE", "/api/tickets/t-1", nil)

	mockService.On("Delete", c.Request.Context(), "t-1").Return(nil)

	handler.delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestTicketHandler_delete_NotFound(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("DELETE", "/api/tickets/missing", nil)

	mockService.On("Delete", c.Request.Context(), "missing").Return(domain.ErrNotFound)

	handler.delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketHandler_listByFlight_NotFound(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "flightId", Value: "flight-1"}}
	c.Request = httptest.NewRequest("GET", "/api/tickets/flight/flight-1", nil)

	mockService.On("ListByFlight", c.Request.Context(), "flight-1").Return(nil, domain.ErrNotFound)

	handler.listByFlight(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketHandler_update(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	status := "cancelled"
	patch := tickets.UpdateTicketInput{Status: &status}
	body, _ := json.Marshal(patch)
	c.Params = gin.Params{{Key: "id", Value: "t-1"}}
	c.Request = httptest.NewRequest("PUT", "/api/tickets/t-1", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	updated := &domain.Ticket{ID: "t-1", Status: domain.TicketStatusCancelled}
	mockService.On("Update", c.Request.Context(), "t-1", patch).Return(updated, nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.Ticket
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCancelled, response.Status)
}
