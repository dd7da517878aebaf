package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/navjeevan-trust/orgsite/src/api/types"
)

func sampleRegistrations() []types.Registration {
	voucher := "V-001"
	approvedAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return []types.Registration{
		{
			ID:        2,
			FullName:  "Ravi Kumar",
			Mobile:    "9999900002",
			Address:   "45 Temple Street",
			CreatedAt: time.Date(2026, 3, 1, 18, 45, 12, 0, time.UTC),
		},
		{
			ID:         1,
			FullName:   "Asha Rao",
			Mobile:     "9999900001",
			Address:    "12 Lake Road",
			Reference:  "walk-in",
			Voucher:    &voucher,
			Approved:   true,
			CreatedAt:  time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC),
			ApprovedAt: &approvedAt,
		},
	}
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(sampleRegistrations())
	require.Len(t, rows, 2)

	require.Equal(t, StatusPending, rows[0].Status)
	require.Empty(t, rows[0].Voucher)
	require.Equal(t, "2026-03-01", rows[0].Submitted, "date column drops the time portion")

	require.Equal(t, StatusApproved, rows[1].Status)
	require.Equal(t, "V-001", rows[1].Voucher)
	require.Equal(t, "2026-02-28", rows[1].Submitted)
}

func TestTruncate(t *testing.T) {
	exact := strings.Repeat("a", 25)
	require.Equal(t, exact, truncate(exact, 25))

	over := strings.Repeat("a", 26)
	require.Equal(t, exact+"...", truncate(over, 25))

	require.Equal(t, "short", truncate("short", 15))
}

func TestExcelShape(t *testing.T) {
	payload, err := Excel(BuildRows(sampleRegistrations()))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows("Registrations")
	require.NoError(t, err)
	require.Len(t, cells, 3, "header plus one row per registration")
	require.Equal(t, Columns, cells[0])

	require.Equal(t, "2", cells[1][0])
	require.Equal(t, "Ravi Kumar", cells[1][1])
	require.Equal(t, StatusPending, cells[1][6])
	require.Equal(t, "V-001", cells[2][5])
	require.Equal(t, StatusApproved, cells[2][6])
}

func TestExcelEmptySet(t *testing.T) {
	payload, err := Excel(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows("Registrations")
	require.NoError(t, err)
	require.Len(t, cells, 1, "header only")
}

func TestPDFPaginates(t *testing.T) {
	regs := make([]types.Registration, 0, 120)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		regs = append(regs, types.Registration{
			ID:        uint64(i + 1),
			FullName:  "Registrant With A Rather Long Name",
			Mobile:    "99999" + strings.Repeat("0", 4) + string(rune('0'+i%10)),
			Address:   strings.Repeat("Very long address segment ", 5),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	payload, err := PDF(BuildRows(regs), base)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
	// 120 rows cannot fit on one landscape page; the page tree root
	// accounts for one extra "/Type /Page" match.
	require.Greater(t, bytes.Count(payload, []byte("/Type /Page")), 2)
}

func TestSanitizeTextForPDF(t *testing.T) {
	require.Equal(t, "it's -- fine...", sanitizeTextForPDF("it’s — fine…"))
	require.Equal(t, "", sanitizeTextForPDF(""))
}
