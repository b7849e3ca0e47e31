package http

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/render"
	"expensetracker/internal/report"
)

const (
	msgAdded         = "Expense added successfully!"
	msgDeleted       = "Expense deleted successfully!"
	msgNotFound      = "Expense not found."
	msgInternalError = "Something went wrong. Please try again."

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// page is the data handed to templates/base.html.
type page struct {
	Title    string
	Nav      string
	Flash    string
	Error    string
	Currency string
	Data     any
}

type summaryView struct {
	Total  decimal.Decimal
	Count  int
	Recent []core.Expense
}

type addView struct {
	Amount      string
	Category    string
	Date        string
	Description string
}

type dashboardView struct {
	PieChart   template.URL
	TrendChart template.URL
	Categories []report.CategoryAmount
	Total      decimal.Decimal
	Count      int
}

type listView struct {
	Expenses []core.Expense
	Total    decimal.Decimal
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		s.serverError(w, r, err, applog.ComponentExpense, applog.OpSummary)
		return
	}

	s.renderPage(w, r, http.StatusOK, "index.html", page{
		Title: "Summary",
		Nav:   "index",
		Flash: popFlash(w, r),
		Data:  summaryView{Total: sum.Total, Count: sum.Count, Recent: sum.Recent},
	})
}

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "add.html", page{
		Title: "Add Expense",
		Nav:   "add",
		Flash: popFlash(w, r),
		Data:  addView{Date: core.Today().String()},
	})
}

func (s *Server) handleAddSubmit(w http.ResponseWriter, r *http.Request) {
	in, err := ParseExpenseForm(w, r)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Parse form error", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	e, err := s.svc.Add(r.Context(), in)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			s.logger.InfoContext(r.Context(), "Rejected expense input",
				applog.FieldOperation, applog.OpValidate,
				applog.FieldErrorType, applog.ErrorTypeValidation,
				applog.FieldError, verr)
			s.renderPage(w, r, http.StatusUnprocessableEntity, "add.html", page{
				Title: "Add Expense",
				Nav:   "add",
				Error: validationMessage(verr),
				Data:  addView(in),
			})
			return
		}
		s.serverError(w, r, err, applog.ComponentExpense, applog.OpCreate)
		return
	}

	s.events.LogExpenseCreated(r.Context(), e.ID, e.Amount.String(), e.Category, e.Date.String())
	setFlash(w, msgAdded)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Dashboard(r.Context())
	if err != nil {
		s.serverError(w, r, err, applog.ComponentDashboard, applog.OpSummary)
		return
	}

	pie, err := render.CategoryChart(d.Categories)
	if err != nil {
		s.serverError(w, r, err, applog.ComponentDashboard, applog.OpRender)
		return
	}
	trend, err := render.TrendChart(d.Months, d.MonthValues, s.currency)
	if err != nil {
		s.serverError(w, r, err, applog.ComponentDashboard, applog.OpRender)
		return
	}

	s.renderPage(w, r, http.StatusOK, "dashboard.html", page{
		Title: "Dashboard",
		Nav:   "dashboard",
		Flash: popFlash(w, r),
		Data: dashboardView{
			PieChart:   pngDataURI(pie),
			TrendChart: pngDataURI(trend),
			Categories: d.Categories.Ranked(),
			Total:      d.Total,
			Count:      d.Count,
		},
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, http.StatusOK, "")
}

func (s *Server) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	records, err := s.svc.List(r.Context())
	if err != nil {
		s.serverError(w, r, err, applog.ComponentExpense, applog.OpList)
		return
	}

	s.renderPage(w, r, status, "expenses.html", page{
		Title: "All Expenses",
		Nav:   "expenses",
		Flash: popFlash(w, r),
		Error: errMsg,
		Data:  listView{Expenses: records, Total: report.Total(records)},
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		BadRequestError("Invalid expense id").Write(w)
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.InfoContext(r.Context(), "Delete of unknown expense",
				applog.FieldRecordID, id,
				applog.FieldErrorType, applog.ErrorTypeNotFound)
			s.renderList(w, r, http.StatusNotFound, msgNotFound)
			return
		}
		s.serverError(w, r, err, applog.ComponentExpense, applog.OpDelete)
		return
	}

	s.events.LogExpenseDeleted(r.Context(), id)
	setFlash(w, msgDeleted)
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "csv", render.CSVFilename, "text/csv; charset=utf-8", render.WriteCSV)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "xlsx", render.XLSXFilename, contentTypeXLSX, render.WriteXLSX)
}

type exportFunc func(w io.Writer, records []core.Expense, currency string) error

// export buffers the whole file so a failure never yields a truncated
// download.
func (s *Server) export(w http.ResponseWriter, r *http.Request, format, filename, contentType string, write exportFunc) {
	records, err := s.svc.List(r.Context())
	if err != nil {
		s.serverError(w, r, err, applog.ComponentExport, applog.OpExport)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, records, s.currency); err != nil {
		s.serverError(w, r, err, applog.ComponentExport, applog.OpExport)
		return
	}

	s.logger.InfoContext(r.Context(), "Expenses exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldFormat, format,
		applog.FieldRecordCount, len(records))

	NewResponse().
		Attachment(filename, contentType).
		Body(buf.Bytes()).
		Write(w)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := s.templates[name]
	if !ok {
		s.serverError(w, r, errors.New("unknown template "+name), applog.ComponentTemplate, applog.OpRender)
		return
	}
	p.Currency = s.currency

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", p); err != nil {
		s.serverError(w, r, err, applog.ComponentTemplate, applog.OpRender)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// serverError logs the cause and answers with a generic message.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, component, operation string) {
	fields := applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", "", "")
	s.events.LogError(r.Context(), "Request failed", err, component, operation, applog.ErrorTypeInternal, fields)
	InternalServerError(msgInternalError).Write(w)
}

func validationMessage(err *core.ValidationError) string {
	switch err.Field {
	case "amount":
		return "Please enter a valid amount, for example 12.50."
	case "date":
		return "Please enter a valid date in YYYY-MM-DD format."
	default:
		return "Invalid " + err.Field + ": " + err.Err.Error() + "."
	}
}

func pngDataURI(png []byte) template.URL {
	if len(png) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + render.EncodeBase64(png))
}
