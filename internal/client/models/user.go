// Package models defines client-side data models used by the recipebook CLI.
package models

import "fmt"

// User is the profile record returned by the API. The password is never kept
// on the client after it has been submitted.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u User) String() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// Credentials is the body of the create-account and token requests.
// Name is omitted for token requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// ProfileUpdate is the full replacement body for the profile endpoint.
type ProfileUpdate struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ProfilePatch carries only the profile fields that changed.
type ProfilePatch struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// IsEmpty reports whether the patch would not change anything.
func (p ProfilePatch) IsEmpty() bool {
	return p.Email == nil && p.Name == nil && p.Password == nil
}

// AuthToken is the response of the token endpoint.
type AuthToken struct {
	Token string `json:"token"`
}
