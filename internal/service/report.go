package service

import (
	"context"
	"fmt"
	"time"

	"attendance-report/internal/attendance"
	"attendance-report/internal/export"
	"attendance-report/internal/models"
	"attendance-report/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ReportRequest identifies the company month to report on.
type ReportRequest struct {
	CompanyID uint
	Year      int
	Month     int
	// ActingUserID is the user asking for the report. Optional; their time
	// zone wins over the company one.
	ActingUserID uint
}

// Report is the computed month of every active employee of a company.
type Report struct {
	Company   models.Company
	Month     attendance.Month
	Location  *time.Location
	Holidays  []attendance.Date
	Rows      []attendance.Row
	Summaries []attendance.Summary
	Filename  string
}

// ExportResult is a stored report document.
type ExportResult struct {
	Report     *Report
	Attachment *models.ReportAttachment
	URL        string
}

type ReportService struct {
	companyRepo    repository.CompanyRepository
	employeeRepo   repository.EmployeeRepository
	attendanceRepo repository.AttendanceRepository
	leaveRepo      repository.LeaveRepository
	calendarRepo   repository.CalendarRepository
	userRepo       repository.UserRepository
	attachments    *AttachmentService
	defaultTZ      string
	workers        int
	logger         *logrus.Logger
}

func NewReportService(
	companyRepo repository.CompanyRepository,
	employeeRepo repository.EmployeeRepository,
	attendanceRepo repository.AttendanceRepository,
	leaveRepo repository.LeaveRepository,
	calendarRepo repository.CalendarRepository,
	userRepo repository.UserRepository,
	attachments *AttachmentService,
	defaultTZ string,
	workers int,
	logger *logrus.Logger,
) *ReportService {
	if workers < 1 {
		workers = 1
	}
	return &ReportService{
		companyRepo:    companyRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		calendarRepo:   calendarRepo,
		userRepo:       userRepo,
		attachments:    attachments,
		defaultTZ:      defaultTZ,
		workers:        workers,
		logger:         logger,
	}
}

// Generate computes one row per active employee of the company, in employee
// id order. It fails with NoActiveEmployeesError when there is nobody to report.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (*Report, error) {
	month, err := attendance.NewMonth(req.Year, req.Month)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}

	company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}

	loc, err := s.resolveLocation(ctx, req.ActingUserID, company)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"company_id": company.ID,
		"month":      month.String(),
		"timezone":   loc.String(),
	})
	log.Info("Generating attendance report")

	employees, err := s.employeeRepo.GetActiveByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(employees) == 0 {
		log.Warn("No active employees")
		return nil, &NoActiveEmployeesError{Company: company.Name}
	}

	calendars, err := s.loadCalendars(ctx, company, employees, month, loc)
	if err != nil {
		return nil, err
	}

	var companyCal *attendance.Calendar
	holidays := attendance.DateSet{}
	if company.CalendarID != nil {
		companyCal = calendars[*company.CalendarID]
		holidays, err = s.holidays(ctx, *company.CalendarID, month, loc)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]attendance.Summary, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range employees {
		emp := employees[i]
		cal := companyCal
		if emp.CalendarID != nil && calendars[*emp.CalendarID] != nil {
			cal = calendars[*emp.CalendarID]
		}
		g.Go(func() error {
			sum, err := s.summarizeEmployee(gctx, emp, cal, holidays, month, loc)
			if err != nil {
				return fmt.Errorf("employee %d: %w", emp.ID, err)
			}
			summaries[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to compute attendance report")
		return nil, err
	}

	rows := make([]attendance.Row, len(summaries))
	for i, sum := range summaries {
		rows[i] = sum.Row
	}

	log.WithFields(logrus.Fields{
		"employees": len(rows),
		"holidays":  len(holidays),
	}).Info("Attendance report generated")

	return &Report{
		Company:   *company,
		Month:     month,
		Location:  loc,
		Holidays:  holidays.Sorted(),
		Rows:      rows,
		Summaries: summaries,
		Filename:  export.Filename(company.Name, month.Year, int(month.Month)),
	}, nil
}

// Export generates the report, renders the spreadsheet and stores it as an
// attachment. Nothing is stored when generation fails.
func (s *ReportService) Export(ctx context.Context, req ReportRequest) (*ExportResult, error) {
	report, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := export.WriteAttendance(report.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}

	attachment, err := s.attachments.Save(ctx, report.Filename, report.Company.ID, report.Month, data)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Report:     report,
		Attachment: attachment,
		URL:        s.attachments.URL(attachment),
	}, nil
}

func (s *ReportService) resolveLocation(ctx context.Context, userID uint, company *models.Company) (*time.Location, error) {
	var userTZ string
	if userID != 0 {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get acting user: %w", err)
		}
		if user != nil {
			userTZ = user.Timezone
		}
	}
	return attendance.ResolveLocation(userTZ, company.Timezone, s.defaultTZ), nil
}

// loadCalendars fetches every calendar the run needs once, before employees
// are processed.
func (s *ReportService) loadCalendars(ctx context.Context, company *models.Company, employees []models.Employee, month attendance.Month, loc *time.Location) (map[uint]*attendance.Calendar, error) {
	ids := []uint{}
	seen := map[uint]bool{}
	add := func(id *uint) {
		if id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	add(company.CalendarID)
	for i := range employees {
		add(employees[i].CalendarID)
	}

	calendars := make(map[uint]*attendance.Calendar, len(ids))
	for _, id := range ids {
		cal, err := s.calendarRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get calendar %d: %w", id, err)
		}
		if cal == nil {
			s.logger.WithField("calendar_id", id).Warn("Calendar not found, employees fall back to the company calendar")
			continue
		}

		// One day of margin on each side keeps windows that cross midnight.
		leaves, err := s.calendarRepo.GetLeaves(ctx, id, month.Start(loc).AddDate(0, 0, -1), month.End(loc).AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("failed to get calendar leaves %d: %w", id, err)
		}
		calendars[id] = toCalendar(cal, leaves)
	}
	return calendars, nil
}

func (s *ReportService) holidays(ctx context.Context, calendarID uint, month attendance.Month, loc *time.Location) (attendance.DateSet, error) {
	leaves, err := s.calendarRepo.GetHolidays(ctx, calendarID, month.Start(loc), month.End(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}
	return (&attendance.Calendar{Windows: toWindows(leaves)}).Holidays(month, loc), nil
}

func (s *ReportService) summarizeEmployee(ctx context.Context, emp models.Employee, cal *attendance.Calendar, holidays attendance.DateSet, month attendance.Month, loc *time.Location) (attendance.Summary, error) {
	events, err := s.attendanceRepo.GetByEmployeeAndPeriod(ctx, emp.ID, month.Start(loc), month.End(loc))
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	leaves, err := s.leaveRepo.GetValidatedOverlapping(ctx, emp.ID, month.Start(loc), month.End(loc))
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to get leaves: %w", err)
	}

	in := attendance.EmployeeInput{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		Department: emp.DepartmentName(),
		Calendar:   cal,
		Holidays:   holidays,
		Events:     toEvents(events),
		Leaves:     toLeaves(leaves),
		Month:      month,
		Location:   loc,
	}
	if s.logger.IsLevelEnabled(logrus.DebugLevel) {
		in.Log = s.logger.WithField("employee_id", emp.ID)
	}

	sum := attendance.Summarize(in)

	s.logger.WithFields(logrus.Fields{
		"employee_id": emp.ID,
		"worked":      sum.Row.Worked.String(),
		"total":       sum.Row.Total().String(),
		"presence":    sum.Row.Presence.String(),
	}).Debug("Employee month computed")

	return sum, nil
}

func toCalendar(cal *models.WorkCalendar, leaves []models.CalendarLeave) *attendance.Calendar {
	out := &attendance.Calendar{Name: cal.Name, Windows: toWindows(leaves)}
	for _, a := range cal.Attendances {
		out.Shifts = append(out.Shifts, attendance.Shift{
			Weekday:  time.Weekday(a.DayOfWeek),
			HourFrom: a.HourFrom,
			HourTo:   a.HourTo,
		})
	}
	return out
}

func toWindows(leaves []models.CalendarLeave) []attendance.Window {
	windows := make([]attendance.Window, 0, len(leaves))
	for _, l := range leaves {
		w := attendance.Window{Start: l.DateFrom, End: l.DateTo}
		if !l.IsHoliday() {
			id := *l.EmployeeID
			w.Resource = &id
		}
		windows = append(windows, w)
	}
	return windows
}

func toEvents(events []models.AttendanceEvent) []attendance.Event {
	out := make([]attendance.Event, 0, len(events))
	for _, e := range events {
		out = append(out, attendance.Event{CheckIn: e.CheckIn, CheckOut: e.CheckOut})
	}
	return out
}

func toLeaves(leaves []models.LeaveRecord) []attendance.Leave {
	out := make([]attendance.Leave, 0, len(leaves))
	for _, l := range leaves {
		if !l.IsValidated() {
			continue
		}
		out = append(out, attendance.Leave{
			From:  l.DateFrom,
			To:    l.DateTo,
			Kind:  l.LeaveType.Kind,
			Label: l.LeaveType.Name,
		})
	}
	return out
}
