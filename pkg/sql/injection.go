package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a value libinjection flagged.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Field       string // Name of the input that failed the check
	Value       string
}

// CheckValueForInjection runs libinjection over a user-supplied label, such as
// a classification, before it is sent upstream and persisted.
//
// Returns nil if no injection is detected.
//
//	result := CheckValueForInjection("classification", "Coins")
//	// result == nil
//
//	result = CheckValueForInjection("classification", "'; DROP TABLE artifact_metadata--")
//	// result.IsSQLi == true
func CheckValueForInjection(field, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Field:       field,
		Value:       value,
	}
}
