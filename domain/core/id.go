package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ExperimentID identifies a stored experiment
type ExperimentID ID

func (id ExperimentID) String() string { return ID(id).String() }

// NewExperimentID returns a fresh time-ordered experiment identifier
func NewExperimentID() ExperimentID { return ExperimentID(NewID()) }

// ParseExperimentID parses a string into ExperimentID
func ParseExperimentID(s string) (ExperimentID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("experiment ID cannot be empty")
	}
	return ExperimentID(s), nil
}

// VariantName names one arm of an experiment
type VariantName string

// ParseVariantName rejects blank names
func ParseVariantName(s string) (VariantName, error) {
	if strings.TrimSpace(s) == "" {
		return "", NewConfigurationError("variant name cannot be empty")
	}
	return VariantName(s), nil
}
