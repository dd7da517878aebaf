package registration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/types"
)

// Service owns all reads and writes on the registrations table. It is
// transport-agnostic: no handler types, no flash messages, only typed
// errors.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return Service{db: db}
}

// Create inserts a new pending registration from the public intake
// form. Vouchers are never assigned here; that is the admin workflow.
func (s Service) Create(fullName, address, mobile, reference string) (uint64, error) {
	fullName = strings.TrimSpace(fullName)
	mobile = strings.TrimSpace(mobile)
	if fullName == "" {
		return 0, fmt.Errorf("%w: full name", ErrValidation)
	}
	if mobile == "" {
		return 0, fmt.Errorf("%w: mobile number", ErrValidation)
	}

	var count int64
	if err := s.db.Model(&types.Registration{}).Where("mobile = ?", mobile).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrDuplicateContact
	}

	reg := types.Registration{
		FullName:  fullName,
		Address:   strings.TrimSpace(address),
		Mobile:    mobile,
		Reference: strings.TrimSpace(reference),
	}
	if err := s.db.Create(&reg).Error; err != nil {
		return 0, mapDuplicate(err)
	}
	return reg.ID, nil
}

// UpdateInput carries the full editable field set; Update writes all of
// it, matching the admin edit form.
type UpdateInput struct {
	FullName         string
	Mobile           string
	Address          string
	Reference        string
	Voucher          string
	ApproveRequested bool
}

func (s Service) Update(id uint64, in UpdateInput) error {
	var reg types.Registration
	if err := s.db.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Voucher = strings.TrimSpace(in.Voucher)
	if in.FullName == "" {
		return fmt.Errorf("%w: full name", ErrValidation)
	}
	if in.Mobile == "" {
		return fmt.Errorf("%w: mobile number", ErrValidation)
	}
	if in.ApproveRequested && in.Voucher == "" {
		return ErrMissingVoucher
	}

	var count int64
	if err := s.db.Model(&types.Registration{}).
		Where("mobile = ? AND id <> ?", in.Mobile, id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateContact
	}
	if in.Voucher != "" {
		if err := s.db.Model(&types.Registration{}).
			Where("voucher = ? AND id <> ?", in.Voucher, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateVoucher
		}
	}

	reg.FullName = in.FullName
	reg.Mobile = in.Mobile
	reg.Address = strings.TrimSpace(in.Address)
	reg.Reference = strings.TrimSpace(in.Reference)
	if in.Voucher == "" {
		reg.Voucher = nil
	} else {
		reg.Voucher = &in.Voucher
	}

	// The approval timestamp is stamped once, on the false -> true
	// transition, and survives later edits that keep the flag set.
	// Un-approving through the edit form clears it so that
	// "approved_at set iff approved" keeps holding.
	wasApproved := reg.Approved
	reg.Approved = in.ApproveRequested
	if in.ApproveRequested && !wasApproved {
		now := time.Now()
		reg.ApprovedAt = &now
	} else if !in.ApproveRequested {
		reg.ApprovedAt = nil
	}

	if err := s.db.Save(&reg).Error; err != nil {
		return mapDuplicate(err)
	}
	return nil
}

// Approve marks a registration approved. Requires a voucher to already
// be assigned. Re-approving an approved row is a no-op: the original
// approval timestamp is kept. Returns the voucher so callers can echo
// it in the confirmation.
func (s Service) Approve(id uint64) (string, error) {
	var reg types.Registration
	if err := s.db.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if reg.VoucherValue() == "" {
		return "", ErrMissingVoucher
	}
	if reg.Approved {
		return reg.VoucherValue(), nil
	}

	now := time.Now()
	err := s.db.Model(&reg).Updates(map[string]interface{}{
		"approved":    true,
		"approved_at": now,
	}).Error
	if err != nil {
		return "", err
	}
	return reg.VoucherValue(), nil
}

// Delete removes a row outright. Deleting twice yields ErrNotFound the
// second time.
func (s Service) Delete(id uint64) error {
	res := s.db.Delete(&types.Registration{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s Service) Get(id uint64) (types.Registration, error) {
	var reg types.Registration
	if err := s.db.First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Registration{}, ErrNotFound
		}
		return types.Registration{}, err
	}
	return reg, nil
}

// List returns every registration, newest submission first. The table
// is expected to stay small; there is no pagination.
func (s Service) List() ([]types.Registration, error) {
	var regs []types.Registration
	if err := s.db.Order("created_at DESC, id DESC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// mapDuplicate converts a unique-index violation into the matching
// workflow error. MySQL reports these as error 1062 with the index name
// in the message; the sqlite driver used in tests reports a UNIQUE
// constraint failure with the column name. Everything else passes
// through untouched.
func mapDuplicate(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	dup := errors.Is(err, gorm.ErrDuplicatedKey) ||
		(errors.As(err, &mysqlErr) && mysqlErr.Number == 1062) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
	if !dup {
		return err
	}
	switch {
	case strings.Contains(err.Error(), "mobile"):
		return ErrDuplicateContact
	case strings.Contains(err.Error(), "voucher"):
		return ErrDuplicateVoucher
	}
	return err
}
