package service

import (
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/pkg/utils"
)

// validateFields checks operator input the way the customer form does: a
// name and a plausible mobile number are required, the remaining contact
// fields are checked only when present.
func validateFields(f entity.CustomerFields) error {
	if f.FullName == "" {
		return entity.NewValidationError("fullName", "is required")
	}
	if f.MobileNumber == "" {
		return entity.NewValidationError("mobileNumber", "is required")
	}
	if err := utils.ValidateMobile(f.MobileNumber); err != nil {
		return entity.NewValidationError("mobileNumber", err.Error())
	}
	if f.Email != "" {
		if err := utils.ValidateEmail(f.Email); err != nil {
			return entity.NewValidationError("email", err.Error())
		}
	}
	if f.GSTNumber != "" {
		if err := utils.ValidateGSTIN(f.GSTNumber); err != nil {
			return entity.NewValidationError("gstNumber", err.Error())
		}
	}
	if f.Pincode != "" {
		if err := utils.ValidatePincode(f.Pincode); err != nil {
			return entity.NewValidationError("pincode", err.Error())
		}
	}
	if f.CreditLimit.IsNegative() {
		return entity.NewValidationError("creditLimit", "must not be negative")
	}
	return nil
}
