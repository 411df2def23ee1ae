package model

// UserPayload is the body accepted by POST and PUT on users. Role is not part
// of it: roles only come from the seed data.
type UserPayload struct {
	ID        *int    `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Age       *int    `json:"age"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// ApplyTo overwrites every payload field on u. Fields missing from the body
// are cleared. A missing id leaves u.ID as it is.
func (p UserPayload) ApplyTo(u *User) {
	if p.ID != nil {
		u.ID = *p.ID
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Age = p.Age
	u.Email = p.Email
	u.Phone = p.Phone
}

// OrderPayload is the body accepted by POST and PUT on orders. Dates may be
// YYYY-MM-DD or MM/DD/YYYY.
type OrderPayload struct {
	ID          *int    `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Address     *string `json:"address"`
	Price       *int    `json:"price"`
	CustomerID  *int    `json:"customer_id"`
	ExecutorID  *int    `json:"executor_id"`
}

// ApplyTo overwrites every field of o the same way UserPayload.ApplyTo does.
func (p OrderPayload) ApplyTo(o *Order) {
	if p.ID != nil {
		o.ID = *p.ID
	}
	o.Name = p.Name
	o.Description = p.Description
	o.StartDate = p.StartDate
	o.EndDate = p.EndDate
	o.Address = p.Address
	o.Price = p.Price
	o.CustomerID = p.CustomerID
	o.ExecutorID = p.ExecutorID
}

// OfferPayload is the body accepted by POST and PUT on offers.
type OfferPayload struct {
	ID         *int `json:"id"`
	OrderID    *int `json:"order_id"`
	ExecutorID *int `json:"executor_id"`
}

// ApplyTo overwrites order_id and executor_id on o. A missing id keeps o.ID.
func (p OfferPayload) ApplyTo(o *Offer) {
	if p.ID != nil {
		o.ID = *p.ID
	}
	o.OrderID = p.OrderID
	o.ExecutorID = p.ExecutorID
}
