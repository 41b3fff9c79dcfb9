package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cashbook/internal/middleware"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/period"
	"cashbook/internal/services"
	"cashbook/internal/validator"
)

const (
	testUserID        = "018f0000-0000-7000-8000-000000000001"
	testBookID        = "018f0000-0000-7000-8000-0000000000b1"
	testCategoryID    = "018f0000-0000-7000-8000-0000000000c1"
	testBankAccountID = "018f0000-0000-7000-8000-0000000000a1"
	testTransactionID = "018f0000-0000-7000-8000-0000000000f1"
)

// --- mock services ---

type mockBookService struct {
	createBookFn     func(creatorID, name, description string, budget *int64, reportPeriod models.ReportPeriod, currencyCode string) (*models.Book, error)
	getUserBooksFn   func(creatorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Book], error)
	getBookByIDFn    func(creatorID, bookID string) (*models.Book, error)
	updateBookFn     func(creatorID, bookID string, fields services.BookUpdateFields) (*models.Book, error)
	deactivateBookFn func(creatorID, bookID string) error
	getBalanceFn     func(bookID, asOf string) (int64, error)
}

func (m *mockBookService) CreateBook(creatorID, name, description string, budget *int64, reportPeriod models.ReportPeriod, currencyCode string) (*models.Book, error) {
	if m.createBookFn != nil {
		return m.createBookFn(creatorID, name, description, budget, reportPeriod, currencyCode)
	}
	return &models.Book{}, nil
}

func (m *mockBookService) GetUserBooks(creatorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Book], error) {
	if m.getUserBooksFn != nil {
		return m.getUserBooksFn(creatorID, page)
	}
	resp := pagination.NewPageResponse([]models.Book{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBookService) GetBookByID(creatorID, bookID string) (*models.Book, error) {
	if m.getBookByIDFn != nil {
		return m.getBookByIDFn(creatorID, bookID)
	}
	return &models.Book{Base: models.Base{ID: bookID}, CreatorID: creatorID, ReportPeriod: models.ReportPeriodMonthly, IsActive: true}, nil
}

func (m *mockBookService) UpdateBook(creatorID, bookID string, fields services.BookUpdateFields) (*models.Book, error) {
	if m.updateBookFn != nil {
		return m.updateBookFn(creatorID, bookID, fields)
	}
	return &models.Book{Base: models.Base{ID: bookID}}, nil
}

func (m *mockBookService) DeactivateBook(creatorID, bookID string) error {
	if m.deactivateBookFn != nil {
		return m.deactivateBookFn(creatorID, bookID)
	}
	return nil
}

func (m *mockBookService) GetBalance(bookID, asOf string) (int64, error) {
	if m.getBalanceFn != nil {
		return m.getBalanceFn(bookID, asOf)
	}
	return 0, nil
}

var _ services.BookServicer = (*mockBookService)(nil)

type mockSummaryService struct {
	computeSummaryFn    func(bookID string, query services.SummaryQuery) (*services.Summary, error)
	getCurrentSummaryFn func(bookID string, today time.Time) (*services.CurrentSummary, error)
}

func (m *mockSummaryService) ComputeSummary(bookID string, query services.SummaryQuery) (*services.Summary, error) {
	if m.computeSummaryFn != nil {
		return m.computeSummaryFn(bookID, query)
	}
	return &services.Summary{BookID: bookID, StartDate: query.Start, EndDate: query.End}, nil
}

func (m *mockSummaryService) GetCurrentSummary(bookID string, today time.Time) (*services.CurrentSummary, error) {
	if m.getCurrentSummaryFn != nil {
		return m.getCurrentSummaryFn(bookID, today)
	}
	return &services.CurrentSummary{Summary: services.Summary{BookID: bookID}}, nil
}

var _ services.SummaryServicer = (*mockSummaryService)(nil)

type mockAuditService struct {
	actions []string
	changes map[string]map[string]interface{}
}

func (m *mockAuditService) Log(_, action, _, _, _ string, changes map[string]interface{}) {
	m.actions = append(m.actions, action)
	if m.changes == nil {
		m.changes = make(map[string]map[string]interface{})
	}
	m.changes[action] = changes
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// fixedToday pins the handlers' clock to 2024-03-13, a Wednesday.
func fixedToday() time.Time {
	t, _ := period.ParseDate("2024-03-13")
	return t
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertAudited(t *testing.T, audit *mockAuditService, action string) {
	t.Helper()
	for _, a := range audit.actions {
		if a == action {
			return
		}
	}
	t.Errorf("expected audit action %s, got %v", action, audit.actions)
}
