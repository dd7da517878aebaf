package reports

import (
	"unicode/utf8"

	"github.com/navjeevan-trust/orgsite/src/api/types"
)

// Columns is the fixed export header; the order is part of the export
// contract for both encodings.
var Columns = []string{"ID", "Name", "Mobile", "Address", "Reference", "Voucher", "Status", "Submitted"}

const (
	StatusApproved = "Approved"
	StatusPending  = "Pending"
)

// Row is the flat projection of one registration as it appears in an
// export. Submitted carries only the date portion.
type Row struct {
	ID        uint64
	Name      string
	Mobile    string
	Address   string
	Reference string
	Voucher   string
	Status    string
	Submitted string
}

// BuildRows projects registrations into export rows, preserving the
// input order.
func BuildRows(regs []types.Registration) []Row {
	rows := make([]Row, 0, len(regs))
	for _, r := range regs {
		status := StatusPending
		if r.Approved {
			status = StatusApproved
		}
		rows = append(rows, Row{
			ID:        r.ID,
			Name:      r.FullName,
			Mobile:    r.Mobile,
			Address:   r.Address,
			Reference: r.Reference,
			Voucher:   r.VoucherValue(),
			Status:    status,
			Submitted: r.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows
}

// truncate bounds long free-text fields so a report row stays a single
// line. The cut is by runes, suffixed with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
