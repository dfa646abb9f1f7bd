// Package reconcile merges the invoice stream with manually curated customer
// records into the derived customer view.
//
// Merge is a pure function of its inputs: it never mutates them, keeps no
// state between calls and yields field-equal output for equal input
// collections regardless of their order.
package reconcile

import (
	"sort"
	"time"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is the collation locale used when none is configured.
var DefaultLocale = language.MustParse("en-IN")

// Options controls how profiles are keyed and ordered.
type Options struct {
	Identity IdentityResolver
	Locale   language.Tag
}

// DefaultOptions keys by name and sorts with the en-IN collation.
func DefaultOptions() Options {
	return Options{Identity: NameIdentity{}, Locale: DefaultLocale}
}

func (o Options) withDefaults() Options {
	if o.Identity == nil {
		o.Identity = NameIdentity{}
	}
	if o.Locale == language.Und {
		o.Locale = DefaultLocale
	}
	return o
}

type entry struct {
	key     string
	profile entity.CustomerProfile
}

// Merge builds one profile per identity key. Invoices seed the profiles and
// their aggregates; manual records are overlaid on top, replacing descriptive
// fields but never the aggregates. The result is sorted by name.
func Merge(invoices []entity.Invoice, records []entity.ManualCustomerRecord, opts Options) []entity.CustomerProfile {
	opts = opts.withDefaults()

	entries := make(map[string]*entry)
	for _, inv := range sortedInvoices(invoices) {
		name := DisplayName(inv.CustomerName)
		key := opts.Identity.Key(name, inv.MobileNumber)

		e, ok := entries[key]
		if !ok {
			e = &entry{key: key, profile: entity.CustomerProfile{
				ID:        entity.InvoiceOnlyIDPrefix + key,
				CreatedAt: inv.CreatedAt,
				Invoices:  []entity.Invoice{},
			}}
			e.profile.FullName = name
			entries[key] = e
		}
		attribute(&e.profile, inv)
	}

	for _, rec := range sortedRecords(records) {
		key := opts.Identity.Key(rec.FullName, rec.MobileNumber)
		if e, ok := entries[key]; ok {
			overlay(&e.profile, rec)
			continue
		}
		entries[key] = &entry{key: key, profile: entity.CustomerProfile{
			ID:             rec.ID,
			CustomerFields: rec.CustomerFields,
			IsManual:       true,
			CreatedAt:      rec.CreatedAt,
			Invoices:       []entity.Invoice{},
		}}
	}

	ordered := make([]*entry, 0, len(entries))
	for _, e := range entries {
		ordered = append(ordered, e)
	}
	sortEntries(ordered, opts.Locale)

	profiles := make([]entity.CustomerProfile, len(ordered))
	for i, e := range ordered {
		profiles[i] = e.profile
	}
	return profiles
}

// Collision is a set of manual records sharing one identity key. Merge shows
// only the last of IDs; the others cannot be reached by id.
type Collision struct {
	Key string
	IDs []string
}

// FindCollisions reports identity keys held by more than one manual record,
// ordered by key. IDs are listed in the order Merge overlays them.
func FindCollisions(records []entity.ManualCustomerRecord, identity IdentityResolver) []Collision {
	if identity == nil {
		identity = NameIdentity{}
	}

	byKey := make(map[string][]string)
	for _, rec := range sortedRecords(records) {
		key := identity.Key(rec.FullName, rec.MobileNumber)
		byKey[key] = append(byKey[key], rec.ID)
	}

	var collisions []Collision
	for key, ids := range byKey {
		if len(ids) > 1 {
			collisions = append(collisions, Collision{Key: key, IDs: ids})
		}
	}
	sort.Slice(collisions, func(i, j int) bool { return collisions[i].Key < collisions[j].Key })
	return collisions
}

// attribute adds one invoice to a profile's aggregates.
func attribute(p *entity.CustomerProfile, inv entity.Invoice) {
	p.Invoices = append(p.Invoices, inv)
	p.TotalPurchases = p.TotalPurchases.Add(inv.NetAmount)

	switch {
	case inv.IsPaid():
		p.TotalPaid = p.TotalPaid.Add(inv.NetAmount)
	case inv.IsPending():
		p.OutstandingBalance = p.OutstandingBalance.Add(inv.NetAmount)
	}

	if p.LastPurchaseDate == nil || inv.CreatedAt.After(*p.LastPurchaseDate) {
		last := inv.CreatedAt
		p.LastPurchaseDate = &last
	}
	if p.MobileNumber == "" {
		p.MobileNumber = inv.MobileNumber
	}
	if p.Address == "" {
		p.Address = inv.Address
	}
}

// overlay copies a manual record onto an invoice-derived profile. Mobile and
// address keep the invoice values when the record leaves them blank.
func overlay(p *entity.CustomerProfile, rec entity.ManualCustomerRecord) {
	mobile, address := p.MobileNumber, p.Address

	p.CustomerFields = rec.CustomerFields
	if p.MobileNumber == "" {
		p.MobileNumber = mobile
	}
	if p.Address == "" {
		p.Address = address
	}
	p.ID = rec.ID
	p.CreatedAt = rec.CreatedAt
	p.IsManual = true
}

func sortedInvoices(invoices []entity.Invoice) []entity.Invoice {
	out := make([]entity.Invoice, len(invoices))
	copy(out, invoices)
	sort.SliceStable(out, func(i, j int) bool {
		return earlier(out[i].CreatedAt, out[j].CreatedAt, out[i].InvoiceID, out[j].InvoiceID)
	})
	return out
}

func sortedRecords(records []entity.ManualCustomerRecord) []entity.ManualCustomerRecord {
	out := make([]entity.ManualCustomerRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return earlier(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func earlier(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA < idB
}

// sortEntries orders by locale-aware, case-insensitive name; ties fall back
// to the identity key and then the id so the order is total.
func sortEntries(entries []*entry, locale language.Tag) {
	col := collate.New(locale, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if c := col.CompareString(a.profile.FullName, b.profile.FullName); c != 0 {
			return c < 0
		}
		if a.key != b.key {
			return a.key < b.key
		}
		return a.profile.ID < b.profile.ID
	})
}
