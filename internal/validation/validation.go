// Package validation holds the field rules for profile input as an ordered
// list of pure functions. Each validator inspects the candidate and returns
// zero or more field errors; Run composes them sequentially.
package validation

import (
	"regexp"
	"strings"

	"github.com/janisto/profilehub/internal/api"
)

const (
	nameMinLength  = 2
	nameMaxLength  = 50
	emailMaxLength = 254
	ageMin         = 1
	ageMax         = 120
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Candidate is a profile submission after normalization.
type Candidate struct {
	Name  string
	Email string
	Age   int
}

// Validator checks one aspect of a candidate profile.
type Validator func(Candidate) []api.FieldError

// Validators is the ordered rule chain applied to every write.
var Validators = []Validator{
	ValidateName,
	ValidateEmail,
	ValidateAge,
}

// Normalize trims the name and lowercases the email. Email case folding is
// what makes the address usable as the natural key.
func Normalize(name, email string, age int) Candidate {
	return Candidate{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Age:   age,
	}
}

// Run applies the full rule chain and collects every field error.
func Run(c Candidate) []api.FieldError {
	var out []api.FieldError
	for _, v := range Validators {
		out = append(out, v(c)...)
	}
	return out
}

// ValidateName enforces length, character set, and that a full name with at
// least first and last parts was given.
func ValidateName(c Candidate) []api.FieldError {
	fail := func(msg string) []api.FieldError {
		return []api.FieldError{{Field: "name", Message: msg}}
	}
	switch {
	case c.Name == "":
		return fail("Name is required")
	case len(c.Name) < nameMinLength:
		return fail("Name must be at least 2 characters long")
	case len(c.Name) > nameMaxLength:
		return fail("Name must not exceed 50 characters")
	case !nameRe.MatchString(c.Name):
		return fail("Name can only contain letters, spaces, hyphens, apostrophes, and periods")
	case len(strings.Fields(c.Name)) < 2:
		return fail("Please enter a full name (first and last name)")
	}
	return nil
}

// ValidateEmail enforces a standard address pattern and the length cap.
func ValidateEmail(c Candidate) []api.FieldError {
	fail := func(msg string) []api.FieldError {
		return []api.FieldError{{Field: "email", Message: msg}}
	}
	switch {
	case c.Email == "":
		return fail("Email address is required")
	case len(c.Email) > emailMaxLength:
		return fail("Email address is too long")
	case !emailRe.MatchString(c.Email):
		return fail("Please enter a valid email address")
	}
	return nil
}

// ValidateAge enforces the inclusive 1-120 range.
func ValidateAge(c Candidate) []api.FieldError {
	if c.Age < ageMin {
		return []api.FieldError{{Field: "age", Message: "Age must be at least 1 year"}}
	}
	if c.Age > ageMax {
		return []api.FieldError{{Field: "age", Message: "Age cannot exceed 120 years"}}
	}
	return nil
}
