package reconcile

import (
	"strings"
	"unicode"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"golang.org/x/text/cases"
)

// IdentityResolver maps a customer name and mobile number to the key that
// decides which invoices and manual records describe the same customer.
type IdentityResolver interface {
	Key(name, mobile string) string
}

// NameIdentity keys customers by case-folded, trimmed name only. Two people
// sharing a name are merged and spelling variants are not.
type NameIdentity struct{}

// Key implements IdentityResolver.
func (NameIdentity) Key(name, _ string) string {
	return foldName(name)
}

// NameMobileIdentity keys customers by folded name plus the digits of their
// mobile number, so namesakes with different numbers stay apart.
type NameMobileIdentity struct{}

// Key implements IdentityResolver.
func (NameMobileIdentity) Key(name, mobile string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, mobile)
	if digits == "" {
		return foldName(name)
	}
	return foldName(name) + "|" + digits
}

// ResolverByName returns the resolver registered under name. Supported names
// are "name" and "name_mobile".
func ResolverByName(name string) (IdentityResolver, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "name":
		return NameIdentity{}, true
	case "name_mobile":
		return NameMobileIdentity{}, true
	}
	return nil, false
}

// DisplayName returns the trimmed customer name, substituting the unknown
// customer placeholder for blank names.
func DisplayName(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return entity.UnknownCustomerName
}

func foldName(name string) string {
	return cases.Fold().String(DisplayName(name))
}
