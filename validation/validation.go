// Package validation checks location submission fields before they reach
// the database. Each validator returns nil or a user-facing error;
// ValidateSubmission aggregates them per field.
package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"cartotaco/models"
)

// ValidTypes are the accepted establishment types.
var ValidTypes = []string{"Brick and Mortar", "Stand", "Truck"}

var (
	// Accept formats: (520) 123-4567, 520-123-4567, 5201234567
	phonePattern = regexp.MustCompile(`^(\(?\d{3}\)?[\s.-]?)?\d{3}[\s.-]?\d{4}$`)
	// Instagram usernames: 1-30 chars, alphanumeric plus underscores/periods
	instagramPattern = regexp.MustCompile(`^[a-zA-Z0-9._]{1,30}$`)
	// Facebook page names: alphanumeric, dots, dashes
	facebookPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
)

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("name is required")
	}
	if len(trimmed) < 3 {
		return errors.New("name must be at least 3 characters")
	}
	if len(name) > 100 {
		return errors.New("name must be 100 characters or less")
	}
	return nil
}

func ValidateType(establishmentType string) error {
	if establishmentType == "" {
		return errors.New("type is required")
	}
	for _, t := range ValidTypes {
		if establishmentType == t {
			return nil
		}
	}
	return errors.New("invalid establishment type")
}

func ValidateAddress(address string) error {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return errors.New("address is required")
	}
	if len(trimmed) < 10 {
		return errors.New("please enter a complete address")
	}
	return nil
}

func ValidateShortDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return errors.New("short description is required")
	}
	if len(trimmed) < 10 {
		return errors.New("description must be at least 10 characters")
	}
	if len(description) > 150 {
		return errors.New("description must be 150 characters or less")
	}
	return nil
}

// ValidateLongDescription allows the field to be empty.
func ValidateLongDescription(description string) error {
	if description == "" {
		return nil
	}
	if len(description) > 500 {
		return errors.New("long description must be 500 characters or less")
	}
	return nil
}

// ValidatePhone allows the field to be empty.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return errors.New("invalid phone format, use: (520) 123-4567")
	}
	return nil
}

// ValidateURL allows the field to be empty.
func ValidateURL(raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("invalid URL, must start with http:// or https://")
	}
	return nil
}

// ValidateInstagram accepts a handle with or without the leading @.
func ValidateInstagram(handle string) error {
	if handle == "" {
		return nil
	}
	cleaned := strings.TrimPrefix(handle, "@")
	if !instagramPattern.MatchString(cleaned) {
		return errors.New("invalid Instagram handle, use @username or username")
	}
	return nil
}

// ValidateFacebook accepts either a page name or a full facebook.com URL.
func ValidateFacebook(facebook string) error {
	if facebook == "" {
		return nil
	}
	if strings.Contains(facebook, "facebook.com/") {
		return ValidateURL(facebook)
	}
	if !facebookPattern.MatchString(facebook) {
		return errors.New("invalid Facebook page, use page name or full URL")
	}
	return nil
}

// ValidateCoordinates checks global ranges, then the service-area box.
func ValidateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	if latitude < 31.5 || latitude > 33.0 || longitude < -111.5 || longitude > -110.5 {
		return errors.New("location appears to be outside Tucson area")
	}
	return nil
}

// ValidateSubmission runs every field validator and returns the failures
// keyed by field name. An empty map means the submission is valid.
func ValidateSubmission(sub models.Submission) map[string]string {
	fieldErrors := make(map[string]string)
	record := func(field string, err error) {
		if err != nil {
			fieldErrors[field] = err.Error()
		}
	}

	record("name", ValidateName(sub.Name))
	record("type", ValidateType(sub.Type))
	record("address", ValidateAddress(sub.Address))
	record("short_description", ValidateShortDescription(sub.ShortDescription))
	record("long_description", ValidateLongDescription(sub.LongDescription))
	record("phone", ValidatePhone(sub.Phone))
	record("website", ValidateURL(sub.Website))
	record("instagram", ValidateInstagram(sub.Instagram))
	record("facebook", ValidateFacebook(sub.Facebook))
	record("coordinates", ValidateCoordinates(sub.Latitude, sub.Longitude))

	return fieldErrors
}
