package model

import "errors"

// ErrNotFound is returned by the store when no row has the requested id.
var ErrNotFound = errors.New("record not found")

// User is a row of the users table. Every column except id is nullable.
type User struct {
	ID        int     `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Age       *int    `json:"age"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	Phone     *string `json:"phone"`
}

// Order is a row of the orders table. CustomerID and ExecutorID point at
// users but nothing checks that those users exist.
type Order struct {
	ID          int     `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Address     *string `json:"address"`
	Price       *int    `json:"price"`
	CustomerID  *int    `json:"customer_id"`
	ExecutorID  *int    `json:"executor_id"`
}

// Offer links an executor to an order.
type Offer struct {
	ID         int  `json:"id"`
	OrderID    *int `json:"order_id"`
	ExecutorID *int `json:"executor_id"`
}
