package user

const RoleSupplier = "supplier"

type Supplier struct {
	SupplierID   int    `json:"supplierId"`
	SupplierName string `json:"name"`
}

type User struct {
	ID           int       `json:"id"`
	EmailAddress string    `json:"emailAddress"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	Locked       bool      `json:"locked"`
	Supplier     *Supplier `json:"supplier,omitempty"`
}

// SupplierID is zero for users who do not belong to a supplier.
func (u User) SupplierID() int {
	if u.Supplier == nil {
		return 0
	}
	return u.Supplier.SupplierID
}

// CanActAsSupplier reports whether the user may use the supplier pages.
func (u User) CanActAsSupplier() bool {
	return u.Active && !u.Locked && u.Role == RoleSupplier && u.Supplier != nil
}
