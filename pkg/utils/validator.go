package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invoiceNoPattern = regexp.MustCompile(`^[A-Za-z0-9/\-]{3,40}$`)
	controlChars     = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateInvoiceNumber checks that an invoice number looks like a trade
// document reference (alphanumeric with / and -, bounded length).
func ValidateInvoiceNumber(invoiceNo string) error {
	if strings.TrimSpace(invoiceNo) == "" {
		return fmt.Errorf("invoice number is required")
	}
	if !invoiceNoPattern.MatchString(invoiceNo) {
		return fmt.Errorf("invalid invoice number format: %s", invoiceNo)
	}
	return nil
}

// ValidateUserID checks the caller-supplied user identifier.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user ID is required")
	}
	if len(userID) > 128 {
		return fmt.Errorf("user ID too long: %d characters", len(userID))
	}
	return nil
}

// SanitizeFileName strips path components and control characters from an
// uploaded file name so it is safe to use inside the storage directory.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = controlChars.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, "..", "")
	if base == "" || base == "." || base == "/" {
		return "upload"
	}
	return base
}

// IsPDF reports whether the file name carries a .pdf extension.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// SanitizeString removes control characters from free text before storage.
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
