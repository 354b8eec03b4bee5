// Package service contains the business logic layer: validation, enum
// enforcement, status-transition side effects, and orchestration between
// repositories. Services accept plain inputs and return domain errors —
// they know nothing about HTTP.
package service

import (
	"fmt"
	"slices"

	"github.com/cashflowcoders/devplanner/internal/apperror"
)

// Enum values accepted by the API. Anything outside these lists is a
// validation error, not a passthrough.
var (
	TaskCategories   = []string{"learning", "health", "content", "outreach", "personal"}
	TaskPriorities   = []string{"high", "medium", "low"}
	ContentTypes     = []string{"video", "blog", "product"}
	ContentStatuses  = []string{"draft", "published", "live", "archived"}
	ClientStatuses   = []string{"pending", "active", "completed", "cancelled", "on-hold"}
	PaymentStatuses  = []string{"pending", "partial", "paid"}
	OutreachTypes    = []string{"email", "dm", "call", "meeting"}
	OutreachStatuses = []string{"sent", "delivered", "opened", "replied", "bounced", "no-response"}
)

// validateEnum checks value against the allowed list. An empty value
// falls back to def (the column default); pass def == "" to make the
// field mandatory.
func validateEnum(field, value, def string, allowed []string) (string, error) {
	if value == "" {
		if def == "" {
			return "", apperror.ValidationFailed(field, field+" is required")
		}
		return def, nil
	}
	if !slices.Contains(allowed, value) {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be one of %v", field, allowed))
	}
	return value, nil
}

// validateEnergy checks the shared 1..10 energy scale. Zero (field
// omitted) maps to the neutral default.
func validateEnergy(energy int) (int, error) {
	if energy == 0 {
		return 5, nil
	}
	if energy < 1 || energy > 10 {
		return 0, apperror.ValidationFailed("energy", "energy must be between 1 and 10")
	}
	return energy, nil
}

// validateDate checks a "2006-01-02" calendar day string.
func validateDate(field, date string) error {
	if date == "" {
		return apperror.ValidationFailed(field, field+" is required")
	}
	if _, err := parseDay(date); err != nil {
		return apperror.ValidationFailed(field, field+" must be formatted YYYY-MM-DD")
	}
	return nil
}
