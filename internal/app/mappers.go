package app

import (
	"fmt"
	"strconv"
	"strings"

	"realty/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Our mock feed uses camelCase names; RESO Web API providers use the
// Pascal-cased standard names.
var listingAliases = map[string][]string{
	"listing_id":    {"listingId", "ListingId", "ListingKey", "mlsNumber", "id"},
	"price":         {"price", "ListPrice", "listPrice"},
	"bedrooms":      {"bedrooms", "BedroomsTotal", "beds"},
	"bathrooms":     {"bathrooms", "BathroomsTotalDecimal", "BathroomsTotalInteger", "baths"},
	"square_feet":   {"squareFootage", "LivingArea", "squareFeet", "area"},
	"property_type": {"propertyType", "PropertySubType", "PropertyType", "type"},
	"year_built":    {"yearBuilt", "YearBuilt"},
	"description":   {"description", "PublicRemarks", "remarks"},
	"status":        {"status", "StandardStatus", "MlsStatus"},
	"days":          {"daysOnMarket", "DaysOnMarket", "CumulativeDaysOnMarket"},
	"features":      {"features", "InteriorFeatures", "amenities"},
	"photos":        {"photos", "Media", "images"},
	"featured":      {"featured", "Featured"},
	"full_address":  {"address.fullAddress", "UnparsedAddress", "fullAddress", "address"},
	"street_number": {"address.streetNumber", "StreetNumber"},
	"street_name":   {"address.streetName", "StreetName"},
	"city":          {"address.city", "City"},
	"state":         {"address.state", "StateOrProvince"},
	"zip":           {"address.zipCode", "PostalCode"},
	"agent_name":    {"listingAgent.name", "ListAgentFullName"},
	"agent_phone":   {"listingAgent.phone", "ListAgentDirectPhone"},
	"agent_email":   {"listingAgent.email", "ListAgentEmail"},
}

// RESO StandardStatus values folded onto our raw statuses.
var resoStatus = map[string]domain.Status{
	"Active":                domain.StatusActive,
	"Active Under Contract": domain.StatusPending,
	"Pending":               domain.StatusPending,
	"Closed":                domain.StatusSold,
	"Sold":                  domain.StatusSold,
	"Rental":                domain.StatusRental,
	"Lease":                 domain.StatusRental,
	"For Sale":              domain.StatusForSale,
	"For Rent":              domain.StatusForRent,
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

// firstAlias returns the first non-empty string for a named alias set.
func firstAlias(m map[string]any, key string) string {
	for _, p := range listingAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// floatAlias accepts numbers and strings like "450,000" or "$2,500".
func floatAlias(m map[string]any, key string) float64 {
	for _, p := range listingAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			s := strings.TrimSpace(reNotMoney.ReplaceAllString(v, ""))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func boolAlias(m map[string]any, key string) bool {
	for _, p := range listingAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return false
}

// slicesAlias accepts []any with either strings or {url/MediaURL/src}.
func slicesAlias(m map[string]any, key string) ([]string, []string) {
	for _, p := range listingAliases[key] {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		vals := make([]string, 0, len(raw))
		captions := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					vals = append(vals, t)
					captions = append(captions, "")
				}
			case map[string]any:
				for _, k := range []string{"url", "MediaURL", "src"} {
					if u, ok := t[k].(string); ok && u != "" {
						vals = append(vals, u)
						c, _ := t["caption"].(string)
						if c == "" {
							c, _ = t["ShortDescription"].(string)
						}
						captions = append(captions, c)
						break
					}
				}
			}
		}
		if len(vals) > 0 {
			return vals, captions
		}
	}
	return nil, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}

/********** listing mapper **********/

// mapListing resolves a raw IDX payload into the typed feed shape.
func mapListing(p map[string]any) (domain.Listing, error) {
	l := domain.Listing{
		ListingID:     firstAlias(p, "listing_id"),
		Price:         floatAlias(p, "price"),
		Bedrooms:      floatAlias(p, "bedrooms"),
		Bathrooms:     floatAlias(p, "bathrooms"),
		SquareFootage: floatAlias(p, "square_feet"),
		PropertyType:  firstAlias(p, "property_type"),
		YearBuilt:     int(floatAlias(p, "year_built")),
		Description:   firstAlias(p, "description"),
		DaysOnMarket:  int(floatAlias(p, "days")),
		Featured:      boolAlias(p, "featured"),
		Address: domain.ListingAddress{
			StreetNumber: firstAlias(p, "street_number"),
			StreetName:   firstAlias(p, "street_name"),
			City:         firstAlias(p, "city"),
			State:        firstAlias(p, "state"),
			ZipCode:      firstAlias(p, "zip"),
		},
	}
	if l.ListingID == "" {
		return domain.Listing{}, fmt.Errorf("listing payload has no id")
	}
	// "address" may be the nested object; lookupStr skips non-strings.
	l.Address.FullAddress = firstAlias(p, "full_address")

	raw := firstAlias(p, "status")
	if st, ok := resoStatus[raw]; ok {
		l.Status = st
	} else {
		l.Status = domain.Status(raw)
	}

	l.Features, _ = slicesAlias(p, "features")
	urls, captions := slicesAlias(p, "photos")
	for i, u := range urls {
		l.Photos = append(l.Photos, domain.Photo{URL: u, Caption: captions[i]})
	}

	if name := firstAlias(p, "agent_name"); name != "" {
		l.ListingAgent = &domain.Agent{
			Name:  name,
			Phone: firstAlias(p, "agent_phone"),
			Email: firstAlias(p, "agent_email"),
		}
	}
	return l, nil
}

// FromListing adapts an MLS listing into the canonical catalog entity. The id
// is left for the catalog to assign; MLSNumber carries the feed identity.
func FromListing(l domain.Listing) domain.Property {
	addr := l.Address.FullAddress
	if addr == "" {
		street := joinNonEmpty(" ", l.Address.StreetNumber, l.Address.StreetName)
		addr = joinNonEmpty(", ", street, l.Address.City, joinNonEmpty(" ", l.Address.State, l.Address.ZipCode))
	}

	p := domain.Property{
		MLSNumber:    l.ListingID,
		Title:        listingTitle(l),
		Address:      addr,
		Description:  l.Description,
		Price:        l.Price,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Area:         l.SquareFootage,
		Status:       l.Status,
		Featured:     l.Featured,
		YearBuilt:    l.YearBuilt,
		PropertyType: l.PropertyType,
		DaysOnMarket: l.DaysOnMarket,
	}
	if len(l.Features) > 0 {
		p.Features = append([]string(nil), l.Features...)
	}
	for _, ph := range l.Photos {
		p.Images = append(p.Images, ph.URL)
	}
	if len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	if l.ListingAgent != nil {
		a := *l.ListingAgent
		p.ListingAgent = &a
	}
	return p
}

func listingTitle(l domain.Listing) string {
	switch {
	case l.PropertyType != "" && l.Address.City != "":
		return l.PropertyType + " in " + l.Address.City
	case l.PropertyType != "":
		return l.PropertyType
	case l.Address.City != "":
		return "Home in " + l.Address.City
	}
	return l.ListingID
}
