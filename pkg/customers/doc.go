// Package customers implements customer CRUD with paginated, searchable
// listings.
package customers
