package redact

import (
	"reflect"
	"strings"
	"testing"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "phone number",
			text: "Call me at 555-123-4567 tomorrow",
			want: "Call me at [PHONE_REDACTED] tomorrow",
		},
		{
			name: "email address",
			text: "Contact jane.doe@example.com for details",
			want: "Contact [EMAIL_REDACTED] for details",
		},
		{
			name: "ssn",
			text: "SSN 123-45-6789 on file",
			want: "SSN [SSN_REDACTED] on file",
		},
		{
			name: "credit card",
			text: "card 4111 1111 1111 1111 expired",
			want: "card [CARD_REDACTED] expired",
		},
		{
			name: "street address",
			text: "Ship to 42 Elm Street please",
			want: "Ship to [ADDRESS_REDACTED] please",
		},
		{
			name: "ip address left in place",
			text: "Request from 192.168.1.1 denied",
			want: "Request from 192.168.1.1 denied",
		},
		{
			name: "multiple categories",
			text: "Email a@b.com or call 555-123-4567",
			want: "Email [EMAIL_REDACTED] or call [PHONE_REDACTED]",
		},
		{
			name: "clean text untouched",
			text: "Nothing sensitive here",
			want: "Nothing sensitive here",
		},
	}

	redactor := NewRedactor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactor.Redact(tt.text); got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestRedactIdempotent(t *testing.T) {
	redactor := NewRedactor()
	once := redactor.Redact("Reach me at 555-123-4567 or jane@example.com")
	twice := redactor.Redact(once)
	if once != twice {
		t.Errorf("second pass changed output: %q -> %q", once, twice)
	}
	if strings.Contains(twice, "555") || strings.Contains(twice, "@example.com") {
		t.Errorf("PII survived redaction: %q", twice)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "detect-only ip address reported",
			text: "host 10.0.0.1 unreachable",
			want: []string{"ip_address"},
		},
		{
			name: "pattern order preserved",
			text: "mail x@y.io from 555-123-4567",
			want: []string{"phone", "email"},
		},
		{
			name: "nothing found",
			text: "all clear",
			want: nil,
		},
	}

	redactor := NewRedactor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactor.Detect(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	want := []string{"phone", "email", "ssn", "credit_card", "ip_address", "address"}
	if got := Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}
