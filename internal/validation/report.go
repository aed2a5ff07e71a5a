package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// MaxLabelLength bounds the free-text label of a report upload.
const MaxLabelLength = 255

// ValidateUploadReport validates the form fields of a report upload.
//
// Required fields:
//   - broker: Must name a supported broker (case-insensitive)
//
// Optional fields:
//   - label: At most MaxLabelLength characters
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUploadReport(req request.UploadReportRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Broker) == "" {
		errors["broker"] = "broker is required"
	} else if _, err := model.ParseBroker(req.Broker); err != nil {
		errors["broker"] = fmt.Sprintf("unsupported broker: %s", req.Broker)
	}

	if utf8.RuneCountInString(req.Label) > MaxLabelLength {
		errors["label"] = fmt.Sprintf("label must be at most %d characters", MaxLabelLength)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
