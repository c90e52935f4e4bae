package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"attendance-report/internal/models"
	"attendance-report/internal/repository"
	"attendance-report/internal/service"
	"attendance-report/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	server    *httptest.Server
	companies *repository.GormCompanyRepository
	employees *repository.GormEmployeeRepository
	events    *repository.GormAttendanceRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{}
	env.companies, err = repository.NewGormCompanyRepository(db)
	require.NoError(t, err)
	env.employees, err = repository.NewGormEmployeeRepository(db, log)
	require.NoError(t, err)
	env.events, err = repository.NewGormAttendanceRepository(db, log)
	require.NoError(t, err)
	leaves, err := repository.NewGormLeaveRepository(db, log)
	require.NoError(t, err)
	calendars, err := repository.NewGormCalendarRepository(db, log)
	require.NoError(t, err)
	users, err := repository.NewGormUserRepository(db)
	require.NoError(t, err)
	attachmentRepo, err := repository.NewGormReportAttachmentRepository(db, log)
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	attachments := service.NewAttachmentService(attachmentRepo, store, "http://reports.local", log)
	reports := service.NewReportService(env.companies, env.employees, env.events, leaves, calendars, users,
		attachments, "America/Asuncion", 2, log)

	env.server = httptest.NewServer(NewRouter(NewReportHandler(reports, attachments, log), log))
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) post(t *testing.T, body string) (*http.Response, Response) {
	t.Helper()
	resp, err := http.Post(e.server.URL+"/api/reports/attendance", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAttendanceReport(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	company := &models.Company{Name: "Acme"}
	require.NoError(t, env.companies.Create(ctx, company))
	emp := &models.Employee{Name: "Gómez", CompanyID: company.ID, Active: true}
	require.NoError(t, env.employees.Create(ctx, emp))

	asuncion, err := time.LoadLocation("America/Asuncion")
	require.NoError(t, err)
	in := time.Date(2024, time.February, 5, 8, 0, 0, 0, asuncion)
	out := in.Add(8 * time.Hour)
	require.NoError(t, env.events.Create(ctx, &models.AttendanceEvent{EmployeeID: emp.ID, CheckIn: in, CheckOut: &out}))

	resp, body := env.post(t, `{"company_id":`+jsonUint(company.ID)+`,"year":2024,"month":2}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)

	data, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var created ReportResponse
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "Asistencia_Acme_2024_02.xlsx", created.Name)
	assert.Equal(t, 1, created.Employees)
	assert.Equal(t, "http://reports.local/api/attachments/"+created.AttachmentID+"?download=true", created.URL)

	download, err := http.Get(env.server.URL + "/api/attachments/" + created.AttachmentID + "?download=true")
	require.NoError(t, err)
	defer download.Body.Close()
	assert.Equal(t, http.StatusOK, download.StatusCode)
	assert.Equal(t, models.SpreadsheetMimetype, download.Header.Get("Content-Type"))
	assert.Contains(t, download.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, download.Header.Get("Content-Disposition"), "Asistencia_Acme_2024_02.xlsx")
	content, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("PK")))

	list, err := http.Get(env.server.URL + "/api/companies/" + jsonUint(company.ID) + "/reports")
	require.NoError(t, err)
	defer list.Body.Close()
	var listed struct {
		Data []ReportResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(list.Body).Decode(&listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, created.AttachmentID, listed.Data[0].AttachmentID)
}

func TestCreateAttendanceReportErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	empty := &models.Company{Name: "Vacía"}
	require.NoError(t, env.companies.Create(ctx, empty))

	resp, body := env.post(t, `{"company_id":`+jsonUint(empty.ID)+`,"year":2024,"month":2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "No se encontraron empleados activos en la compañía Vacía.", body.Error.Message)

	resp, _ = env.post(t, `{"company_id":999,"year":2024,"month":2}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.post(t, `{"company_id":1,"year":2024,"month":13}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "lte", body.Error.Details["Month"])

	resp, _ = env.post(t, `{"company_id":1,"year":24,"month":2}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.post(t, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadAttachmentNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/api/attachments/7f1c8a52-0d5e-4f53-9a57-2c1b7f0e9d11")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
