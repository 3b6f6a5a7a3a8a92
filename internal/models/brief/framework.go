package brief

import "slices"

const DOSFamily = "digital-outcomes-and-specialists"

type FrameworkStatus string

const (
	FrameworkComingSoon FrameworkStatus = "coming"
	FrameworkOpen       FrameworkStatus = "open"
	FrameworkPending    FrameworkStatus = "pending"
	FrameworkStandstill FrameworkStatus = "standstill"
	FrameworkLive       FrameworkStatus = "live"
	FrameworkExpired    FrameworkStatus = "expired"
)

// EditableFrameworkStatuses allow answers to be changed. Expired frameworks
// stay editable so work already started can be finished.
var EditableFrameworkStatuses = []FrameworkStatus{FrameworkLive, FrameworkExpired}

type Lot struct {
	ID          int    `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	AllowsBrief bool   `json:"allowsBrief"`
}

type Framework struct {
	ID     int             `json:"id"`
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Family string          `json:"framework"`
	Status FrameworkStatus `json:"status"`
	Lots   []Lot           `json:"lots"`
}

func (f Framework) Lot(slug string) (Lot, bool) {
	i := slices.IndexFunc(f.Lots, func(l Lot) bool { return l.Slug == slug })
	if i < 0 {
		return Lot{}, false
	}
	return f.Lots[i], true
}

type SupplierFramework struct {
	SupplierID    int    `json:"supplierId"`
	FrameworkSlug string `json:"frameworkSlug"`
	OnFramework   bool   `json:"onFramework"`
}

// Service is a published catalogue entry. Only a handful of fields are read,
// and the price fields are named after the specialist role.
type Service map[string]any

// MaxDayRate returns the "<role>PriceMax" field of the service, if any.
func (s Service) MaxDayRate(role string) any {
	if role == "" {
		return nil
	}
	return s[role+"PriceMax"]
}
