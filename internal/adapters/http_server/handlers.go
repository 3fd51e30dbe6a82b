package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"realty/internal/app"
	"realty/internal/domain"
)

const (
	maxBodyBytes   = 1 << 20
	defaultNewDays = 30
)

// Handlers serves the public catalog API and, when Auth is set, the admin
// surface. A nil Ingest disables /v1/admin/sync.
type Handlers struct {
	Catalog *app.Catalog
	Contact *app.ContactService
	Auth    *app.AdminAuth
	Ingest  *app.IngestionService
	Now     func() time.Time
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/properties", h.listProperties)
	s.mux.Get("/v1/properties/{id}", h.getProperty)
	s.mux.Post("/v1/mortgage", h.mortgage)
	s.mux.Post("/v1/contact", h.contact)

	if h.Auth == nil {
		return
	}
	s.mux.Post("/v1/admin/login", h.login)
	s.mux.Post("/v1/admin/logout", h.logout)
	s.mux.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Auth))
		r.Post("/v1/admin/properties", h.createProperty)
		r.Put("/v1/admin/properties/{id}", h.updateProperty)
		r.Delete("/v1/admin/properties/{id}", h.deleteProperty)
		r.Post("/v1/admin/sync", h.sync)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps validation failures to 422 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var verr domain.ValidationErrors
	if errors.As(err, &verr) {
		writeProblemFields(w, http.StatusUnprocessableEntity, "Validation Failed", "", verr)
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be a JSON object")
		return false
	}
	return true
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type propertyView struct {
	domain.Property
	DisplayStatus domain.Status `json:"displayStatus"`
	PriceDisplay  string        `json:"priceDisplay"`
}

func view(p domain.Property) propertyView {
	price := app.FormatUSD(p.Price)
	if p.Status.IsRental() {
		price += "/mo"
	}
	return propertyView{Property: p, DisplayStatus: p.DisplayStatus(), PriceDisplay: price}
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	cr, verr := h.criteria(r)
	if len(verr) > 0 {
		writeProblemFields(w, http.StatusBadRequest, "Invalid Query", "", verr)
		return
	}
	props := h.Catalog.Filter(cr)
	out := make([]propertyView, 0, len(props))
	for _, p := range props {
		out = append(out, view(p))
	}
	writeCached(w, r, out)
}

// criteria reads the list filters. filter=sale|rent|featured|new is the
// shorthand the listing tabs use; explicit parameters apply on top of it.
func (h *Handlers) criteria(r *http.Request) (app.Criteria, domain.ValidationErrors) {
	q := r.URL.Query()
	var cr app.Criteria
	verr := domain.ValidationErrors{}

	newDays := 0
	switch strings.ToLower(q.Get("filter")) {
	case "", "all":
	case "sale":
		cr.Status = domain.StatusForSale
	case "rent":
		cr.Status = domain.StatusForRent
	case "featured":
		cr.FeaturedOnly = true
	case "new":
		newDays = defaultNewDays
	default:
		verr["filter"] = "filter must be one of sale, rent, featured, new"
	}

	if s := q.Get("status"); s != "" {
		cr.Status = domain.Status(s)
	}
	if s := q.Get("featured"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			verr["featured"] = "featured must be true or false"
		}
		cr.FeaturedOnly = cr.FeaturedOnly || b
	}
	num := func(key string) *float64 {
		s := q.Get(key)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			verr[key] = key + " must be a number"
			return nil
		}
		return &f
	}
	cr.MinPrice = num("minPrice")
	cr.MaxPrice = num("maxPrice")
	cr.MinBedrooms = num("minBedrooms")
	cr.MinBathrooms = num("minBathrooms")
	cr.MinArea = num("minArea")
	cr.MaxArea = num("maxArea")
	cr.PropertyType = q.Get("propertyType")
	cr.Search = q.Get("q")

	if s := q.Get("newDays"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			verr["newDays"] = "newDays must be a positive integer"
		} else {
			newDays = n
		}
	}
	if newDays > 0 {
		since := h.now().UTC().AddDate(0, 0, -newDays)
		cr.ListedSince = &since
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 200 {
			verr["limit"] = "limit must be an integer between 1 and 200"
		} else {
			cr.Limit = n
		}
	}
	return cr, verr
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.Lookup(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	writeCached(w, r, view(p))
}

type mortgageResponse struct {
	app.MortgageResult
	Display map[string]string `json:"display"`
}

func (h *Handlers) mortgage(w http.ResponseWriter, r *http.Request) {
	var in app.MortgageInput
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := app.ComputeMortgage(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mortgageResponse{
		MortgageResult: res,
		Display: map[string]string{
			"loanAmount":     app.FormatUSD(res.LoanAmount),
			"monthlyPayment": app.FormatUSD(res.MonthlyPayment),
			"totalInterest":  app.FormatUSD(res.TotalInterest),
		},
	})
}

func (h *Handlers) contact(w http.ResponseWriter, r *http.Request) {
	var f app.ContactForm
	if !decodeBody(w, r, &f) {
		return
	}
	m, err := h.Contact.Submit(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": m.ID})
}
