package enrollment

import (
	"errors"
	"testing"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"9876543210", "6000000000", "7123456789", "8999999999"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("ValidatePhone(%q) = %v, want nil", phone, err)
		}
	}

	invalid := []string{"", "12345", "0876543210", "5876543210", "987654321", "98765432100", "98765x4321", " 9876543210"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("ValidatePhone(%q) = %v, want ErrInvalidPhone", phone, err)
		}
	}
}

func TestValidateIdentityNumber(t *testing.T) {
	if err := ValidateIdentityNumber("123456789012"); err != nil {
		t.Fatalf("ValidateIdentityNumber(valid) = %v", err)
	}

	invalid := []string{"", "123", "1234567890123", "12345678901a", "123456 89012"}
	for _, id := range invalid {
		if err := ValidateIdentityNumber(id); !errors.Is(err, ErrInvalidIdentityNumber) {
			t.Errorf("ValidateIdentityNumber(%q) = %v, want ErrInvalidIdentityNumber", id, err)
		}
	}
}
