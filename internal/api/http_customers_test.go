package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"wiremill/internal/audit"
	"wiremill/internal/entity"
	"wiremill/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// stubRepo implements just the repository slice the customer handlers
// touch. The embedded interface panics on anything else, which is the
// point: these tests must not depend on wider repository behaviour.
type stubRepo struct {
	model.Repository

	customers map[uint]*entity.DbCustomer
	nextID    uint
	logs      []entity.DbActivityLog
}

func newStubRepo() *stubRepo {
	return &stubRepo{customers: make(map[uint]*entity.DbCustomer), nextID: 1}
}

func (s *stubRepo) CreateCustomer(ctx context.Context, customer *entity.DbCustomer) error {
	customer.ID = s.nextID
	s.nextID++
	clone := *customer
	s.customers[customer.ID] = &clone
	return nil
}

func (s *stubRepo) GetCustomer(ctx context.Context, id uint) (*entity.DbCustomer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *customer
	return &clone, nil
}

func (s *stubRepo) DeleteCustomer(ctx context.Context, id uint) error {
	if _, ok := s.customers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *stubRepo) CreateActivityLog(ctx context.Context, entry *entity.DbActivityLog) error {
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *stubRepo) ListActivityLogs(ctx context.Context, params *entity.ActivityLogQuery) ([]entity.DbActivityLog, error) {
	out := make([]entity.DbActivityLog, 0, len(s.logs))
	for i := len(s.logs) - 1; i >= 0; i-- {
		out = append(out, s.logs[i])
	}
	return out, nil
}

type stubSessionSource struct {
	user *entity.UserSummary
}

func (s *stubSessionSource) CurrentUser(ctx context.Context) *entity.UserSummary {
	return s.user
}

func newCustomerTestHandler(repo *stubRepo) *HTTPHandler {
	sessions := &stubSessionSource{user: &entity.UserSummary{ID: 3, DisplayName: "Dana", Email: "dana@example.com"}}
	return &HTTPHandler{
		repo:     repo,
		recorder: audit.NewRecorder(repo, sessions),
	}
}

func TestCreateCustomerRecordsAuditEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := newStubRepo()
	h := newCustomerTestHandler(repo)

	router := gin.New()
	router.POST("/api/customers", h.CreateCustomer)

	body, _ := json.Marshal(entity.CustomerCreateRequest{Name: "Acme Wires", City: "Lahore"})
	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created entity.DbCustomer
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == 0 || created.Name != "Acme Wires" {
		t.Fatalf("unexpected customer in response: %+v", created)
	}

	if len(repo.logs) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(repo.logs))
	}
	entry := repo.logs[0]
	if entry.ActionKind != entity.ActionCreate || entry.EntityKind != entity.EntityKindCustomer {
		t.Fatalf("unexpected audit entry kind: %+v", entry)
	}
	if entry.EntityName != "Acme Wires" {
		t.Fatalf("expected name snapshot, got %q", entry.EntityName)
	}
	if entry.UserID != 3 || entry.UserName != "Dana" {
		t.Fatalf("expected actor snapshot, got id=%d name=%q", entry.UserID, entry.UserName)
	}
}

func TestDeleteCustomerSnapshotsNameBeforeRemoval(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := newStubRepo()
	h := newCustomerTestHandler(repo)
	_ = repo.CreateCustomer(context.Background(), &entity.DbCustomer{Name: "Old Steel Co"})

	router := gin.New()
	router.DELETE("/api/customers/:id", h.DeleteCustomer)

	req := httptest.NewRequest(http.MethodDelete, "/api/customers/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if len(repo.customers) != 0 {
		t.Fatal("expected customer to be removed")
	}

	if len(repo.logs) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(repo.logs))
	}
	entry := repo.logs[0]
	if entry.ActionKind != entity.ActionDelete || entry.EntityName != "Old Steel Co" {
		t.Fatalf("expected delete entry with name snapshot, got %+v", entry)
	}
}

func TestDeleteMissingCustomerWritesNoAuditEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := newStubRepo()
	h := newCustomerTestHandler(repo)

	router := gin.New()
	router.DELETE("/api/customers/:id", h.DeleteCustomer)

	req := httptest.NewRequest(http.MethodDelete, "/api/customers/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if len(repo.logs) != 0 {
		t.Fatalf("failed mutation must not be audited, got %d entries", len(repo.logs))
	}
}
