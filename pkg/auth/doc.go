// Package auth provides password hashing, stateless JWT issuing and
// verification, and the registration/login service.
//
// Tokens carry {userId, role, exp} and cannot be revoked before expiry;
// there is deliberately no logout endpoint.
package auth
