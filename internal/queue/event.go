// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a workshop booking commits.
// It carries enough information for the consumer to send the
// confirmation e-mails and write an audit line without querying the
// primary database.  Publishing happens outside the booking
// transaction, so a broker or mail outage can never undo a booking.
type BookingConfirmedEvent struct {
	RegistrationID uint64 `json:"registration_id"`
	WorkshopID     uint64 `json:"workshop_id"`
	CustomerID     uint64 `json:"customer_id"`
	WorkshopTitle  string `json:"workshop_title"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ChefName       string `json:"chef_name"`
	ChefEmail      string `json:"chef_email"`
	CustomerEmail  string `json:"customer_email"`
	BookedAt       string `json:"booked_at"`
}
