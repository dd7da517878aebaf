package registration

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/navjeevan-trust/orgsite/src/api/data"
	"github.com/navjeevan-trust/orgsite/src/api/reports"
	"github.com/navjeevan-trust/orgsite/src/api/types"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, data.Migrate(db))
	return NewService(db)
}

func TestCreateRequiresNameAndMobile(t *testing.T) {
	s := newTestService(t)

	_, err := s.Create("", "", "9999900001", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Create("Asha Rao", "", "", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Create("  ", "", "   ", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateRejectsDuplicateMobile(t *testing.T) {
	s := newTestService(t)

	id, err := s.Create("Asha Rao", "12 Lake Road", "9999900001", "walk-in")
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = s.Create("Another Person", "", "9999900001", "")
	require.ErrorIs(t, err, ErrDuplicateContact)
}

func TestMobileUniqueIndexBackstop(t *testing.T) {
	s := newTestService(t)

	_, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)

	// Bypass the precheck and hit the unique index directly, the way a
	// concurrent writer would.
	raw := s.db.Create(&types.Registration{FullName: "Racer", Mobile: "9999900001"}).Error
	require.Error(t, raw)
	require.ErrorIs(t, mapDuplicate(raw), ErrDuplicateContact)
}

func TestVoucherUniqueIndexBackstop(t *testing.T) {
	s := newTestService(t)

	id1, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)
	_, err = s.Create("Ravi Kumar", "", "9999900002", "")
	require.NoError(t, err)

	require.NoError(t, s.Update(id1, UpdateInput{FullName: "Asha Rao", Mobile: "9999900001", Voucher: "V-001"}))

	voucher := "V-001"
	raw := s.db.Model(&types.Registration{}).
		Where("mobile = ?", "9999900002").
		Update("voucher", &voucher).Error
	require.Error(t, raw)
	require.ErrorIs(t, mapDuplicate(raw), ErrDuplicateVoucher)
}

func TestUpdateErrors(t *testing.T) {
	s := newTestService(t)

	err := s.Update(42, UpdateInput{FullName: "X", Mobile: "1"})
	require.ErrorIs(t, err, ErrNotFound)

	id1, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)
	id2, err := s.Create("Ravi Kumar", "", "9999900002", "")
	require.NoError(t, err)

	// Mobile collision with a different row
	err = s.Update(id2, UpdateInput{FullName: "Ravi Kumar", Mobile: "9999900001"})
	require.ErrorIs(t, err, ErrDuplicateContact)

	// Keeping your own mobile is not a collision
	require.NoError(t, s.Update(id2, UpdateInput{FullName: "Ravi Kumar", Mobile: "9999900002"}))

	// Approval requested without a voucher
	err = s.Update(id1, UpdateInput{FullName: "Asha Rao", Mobile: "9999900001", ApproveRequested: true})
	require.ErrorIs(t, err, ErrMissingVoucher)

	// Voucher collision with a different row
	require.NoError(t, s.Update(id1, UpdateInput{FullName: "Asha Rao", Mobile: "9999900001", Voucher: "V-001"}))
	err = s.Update(id2, UpdateInput{FullName: "Ravi Kumar", Mobile: "9999900002", Voucher: "V-001"})
	require.ErrorIs(t, err, ErrDuplicateVoucher)
}

func TestApprovalTimestampStampedOnce(t *testing.T) {
	s := newTestService(t)

	id, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)

	require.NoError(t, s.Update(id, UpdateInput{
		FullName: "Asha Rao", Mobile: "9999900001", Voucher: "V-001", ApproveRequested: true,
	}))
	reg, err := s.Get(id)
	require.NoError(t, err)
	require.True(t, reg.Approved)
	require.NotNil(t, reg.ApprovedAt)
	firstStamp := *reg.ApprovedAt

	// A later edit that keeps the flag set must not refresh the stamp.
	require.NoError(t, s.Update(id, UpdateInput{
		FullName: "Asha R. Rao", Mobile: "9999900001", Voucher: "V-001", ApproveRequested: true,
	}))
	reg, err = s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, reg.ApprovedAt)
	require.True(t, reg.ApprovedAt.Equal(firstStamp))

	// Un-approving through the edit form clears it.
	require.NoError(t, s.Update(id, UpdateInput{
		FullName: "Asha R. Rao", Mobile: "9999900001", Voucher: "V-001",
	}))
	reg, err = s.Get(id)
	require.NoError(t, err)
	require.False(t, reg.Approved)
	require.Nil(t, reg.ApprovedAt)
}

func TestApprove(t *testing.T) {
	s := newTestService(t)

	_, err := s.Approve(42)
	require.ErrorIs(t, err, ErrNotFound)

	id, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)

	_, err = s.Approve(id)
	require.ErrorIs(t, err, ErrMissingVoucher)

	require.NoError(t, s.Update(id, UpdateInput{FullName: "Asha Rao", Mobile: "9999900001", Voucher: "V-001"}))

	voucher, err := s.Approve(id)
	require.NoError(t, err)
	require.Equal(t, "V-001", voucher)

	reg, err := s.Get(id)
	require.NoError(t, err)
	require.True(t, reg.Approved)
	require.NotNil(t, reg.ApprovedAt)
	firstStamp := *reg.ApprovedAt

	// Re-approval is a no-op, not a timestamp refresh.
	voucher, err = s.Approve(id)
	require.NoError(t, err)
	require.Equal(t, "V-001", voucher)

	reg, err = s.Get(id)
	require.NoError(t, err)
	require.True(t, reg.ApprovedAt.Equal(firstStamp))
}

func TestDelete(t *testing.T) {
	s := newTestService(t)

	require.ErrorIs(t, s.Delete(42), ErrNotFound)

	id, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))

	regs, err := s.List()
	require.NoError(t, err)
	require.Empty(t, regs)

	require.ErrorIs(t, s.Delete(id), ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestService(t)

	first, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)
	second, err := s.Create("Ravi Kumar", "", "9999900002", "")
	require.NoError(t, err)

	regs, err := s.List()
	require.NoError(t, err)
	require.Len(t, regs, 2)
	require.Equal(t, second, regs[0].ID)
	require.Equal(t, first, regs[1].ID)
}

// End-to-end walk through the registration lifecycle, from intake to
// export.
func TestRegistrationLifecycle(t *testing.T) {
	s := newTestService(t)

	id, err := s.Create("Asha Rao", "", "9999900001", "")
	require.NoError(t, err)
	reg, err := s.Get(id)
	require.NoError(t, err)
	require.False(t, reg.Approved)

	_, err = s.Create("Someone Else", "", "9999900001", "")
	require.ErrorIs(t, err, ErrDuplicateContact)

	require.NoError(t, s.Update(id, UpdateInput{
		FullName: "Asha Rao", Mobile: "9999900001", Voucher: "V-001", ApproveRequested: true,
	}))
	reg, err = s.Get(id)
	require.NoError(t, err)
	require.True(t, reg.Approved)
	require.NotNil(t, reg.ApprovedAt)

	other, err := s.Create("Ravi Kumar", "", "9999900002", "")
	require.NoError(t, err)
	err = s.Update(other, UpdateInput{FullName: "Ravi Kumar", Mobile: "9999900002", Voucher: "V-001"})
	require.ErrorIs(t, err, ErrDuplicateVoucher)

	regs, err := s.List()
	require.NoError(t, err)
	rows := reports.BuildRows(regs)
	require.Len(t, rows, 2)

	approved := 0
	for _, row := range rows {
		if row.Status == reports.StatusApproved {
			approved++
			require.Equal(t, "V-001", row.Voucher)
		}
	}
	require.Equal(t, 1, approved)
}
