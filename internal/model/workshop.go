package model

import "time"

// Workshop is a bookable cooking event published by a chef.  Capacity is
// the remaining-seats counter: the chef sets the baseline when creating
// the workshop and bookings/cancellations mutate it.  It is never
// allowed to go below zero.
//
// Fields:
//
//	ID           – primary key identifier.
//	ChefID       – hosting chef.
//	Title        – workshop title.
//	Description  – free-text description.
//	Date         – event date, stored as "YYYY-MM-DD".
//	Time         – event start time, stored as "HH:MM".
//	Capacity     – remaining seats (>= 0 at all times).
//	PriceCents   – ticket price in cents.
//	Address      – venue street address.
//	Latitude     – venue latitude as text, optional.
//	Longitude    – venue longitude as text, optional.
//	ContactPhone – phone number shown to attendees.
//	RecipeID     – optional recipe the workshop teaches.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Workshop struct {
	ID           uint64    // workshops.id
	ChefID       uint64    // workshops.chef_id
	Title        string    // workshops.title
	Description  string    // workshops.description
	Date         string    // workshops.date ("2006-01-02")
	Time         string    // workshops.time ("15:04")
	Capacity     int32     // workshops.capacity
	PriceCents   uint32    // workshops.price_cents
	Address      string    // workshops.address
	Latitude     string    // workshops.latitude
	Longitude    string    // workshops.longitude
	ContactPhone string    // workshops.contact_phone
	RecipeID     *uint64   // workshops.recipe_id (nullable)
	CreatedAt    time.Time // workshops.created_at
	UpdatedAt    time.Time // workshops.updated_at
}

// WorkshopRegistration links one customer to one workshop occupancy.
// Cancellation is a soft delete: the row is kept and is_canceled flips to
// true, so "active" always means is_canceled = false.  At most one active
// registration may exist per (customer, workshop) pair.
type WorkshopRegistration struct {
	ID         uint64    // workshop_registrations.id
	CustomerID uint64    // workshop_registrations.customer_id
	WorkshopID uint64    // workshop_registrations.workshop_id
	IsCanceled bool      // workshop_registrations.is_canceled
	CreatedAt  time.Time // workshop_registrations.created_at
}
