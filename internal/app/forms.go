package app

import (
	"regexp"
	"strconv"
	"strings"

	"realty/internal/domain"
)

var (
	reDigits   = regexp.MustCompile(`^\d+$`)
	reDecimal  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	reYear     = regexp.MustCompile(`^\d{4}$`)
	reNotMoney = regexp.MustCompile(`[^0-9.]`)
	reEmail    = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// PropertyForm is the admin editor's raw input. Numbers arrive as text, the
// price possibly formatted as "$450,000".
type PropertyForm struct {
	Title        string   `json:"title"`
	Address      string   `json:"address"`
	Price        string   `json:"price"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Images       []string `json:"images"`
	Tour360      string   `json:"tour360"`
	Bedrooms     string   `json:"bedrooms"`
	Bathrooms    string   `json:"bathrooms"`
	SquareFeet   string   `json:"squareFeet"`
	Garage       string   `json:"garage"`
	PropertyType string   `json:"type"`
	YearBuilt    string   `json:"yearBuilt"`
	Status       string   `json:"status"`
	Featured     bool     `json:"featured"`
}

func (f PropertyForm) Validate() domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	required := []struct{ field, val, msg string }{
		{"title", f.Title, "Title is required"},
		{"address", f.Address, "Address is required"},
		{"price", f.Price, "Price is required"},
		{"description", f.Description, "Description is required"},
		{"image", f.Image, "Main image is required"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			errs[r.field] = r.msg
		}
	}
	if p := strings.TrimSpace(f.Price); p != "" {
		if _, err := parseMoney(p); err != nil {
			errs["price"] = "Price must be a number"
		}
	}
	if v := strings.TrimSpace(f.Bedrooms); v != "" && !reDigits.MatchString(v) {
		errs["bedrooms"] = "Bedrooms must be a number"
	}
	if v := strings.TrimSpace(f.Bathrooms); v != "" && !reDecimal.MatchString(v) {
		errs["bathrooms"] = "Bathrooms must be a number"
	}
	if v := strings.TrimSpace(strings.ReplaceAll(f.SquareFeet, ",", "")); v != "" && !reDigits.MatchString(v) {
		errs["squareFeet"] = "Square feet must be a number"
	}
	if v := strings.TrimSpace(f.YearBuilt); v != "" && !reYear.MatchString(v) {
		errs["yearBuilt"] = "Year built must be a 4-digit year"
	}
	if v := strings.TrimSpace(f.Tour360); v != "" && !strings.HasPrefix(v, "http") {
		errs["tour360"] = "Virtual tour URL must start with http:// or https://"
	}
	switch domain.Status(strings.TrimSpace(f.Status)) {
	case "", domain.StatusForSale, domain.StatusForRent, domain.StatusActive,
		domain.StatusRental, domain.StatusPending, domain.StatusSold:
	default:
		errs["status"] = "Unknown status"
	}
	return errs
}

// ToProperty converts a validated form. The id is left zero; the catalog
// or the caller assigns it.
func (f PropertyForm) ToProperty() (domain.Property, error) {
	if err := f.Validate().OrNil(); err != nil {
		return domain.Property{}, err
	}
	price, _ := parseMoney(f.Price)
	p := domain.Property{
		Title:        strings.TrimSpace(f.Title),
		Address:      strings.TrimSpace(f.Address),
		Description:  strings.TrimSpace(f.Description),
		Price:        price,
		Image:        strings.TrimSpace(f.Image),
		Images:       append([]string(nil), f.Images...),
		Tour360:      strings.TrimSpace(f.Tour360),
		Garage:       strings.TrimSpace(f.Garage),
		PropertyType: strings.TrimSpace(f.PropertyType),
		Status:       domain.Status(strings.TrimSpace(f.Status)),
		Featured:     f.Featured,
	}
	if p.Status == "" {
		p.Status = domain.StatusForSale
	}
	p.Bedrooms, _ = strconv.ParseFloat(strings.TrimSpace(f.Bedrooms), 64)
	p.Bathrooms, _ = strconv.ParseFloat(strings.TrimSpace(f.Bathrooms), 64)
	p.Area, _ = strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(f.SquareFeet, ",", "")), 64)
	p.YearBuilt, _ = strconv.Atoi(strings.TrimSpace(f.YearBuilt))
	return p, nil
}

// parseMoney keeps digits and the decimal point: "$1,250,000.50" -> 1250000.5.
func parseMoney(s string) (float64, error) {
	return strconv.ParseFloat(reNotMoney.ReplaceAllString(s, ""), 64)
}

// ContactForm is a visitor's message from the contact page.
type ContactForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Newsletter bool   `json:"newsletter"`
}

func (f ContactForm) Validate() domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !reEmail.MatchString(f.Email) {
		errs["email"] = "Email is invalid"
	}
	if strings.TrimSpace(f.Message) == "" {
		errs["message"] = "Message is required"
	}
	return errs
}
