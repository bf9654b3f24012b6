// Package users holds the user model, its persistence, and the admin-only
// administration service. Services in other packages depend on the model
// and store defined here; only public Profile views leave the service.
package users
