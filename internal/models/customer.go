package models

// Customer identifies the guest of a booking. It is a plain value: no
// validation is applied and two equal customers are still separate guests.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func NewCustomer(name, phone string) Customer {
	return Customer{Name: name, Phone: phone}
}
