package types

import "time"

// Admin accounts
type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Uploaded PDF notices shown on the public notice board
type Notice struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	NoticeDate string    `gorm:"size:32" json:"noticeDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Gallery images shown on the public home page. SortOrder is a manual
// ordering key; inactive images stay stored but are hidden from the
// public listing.
type GalleryImage struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event registrations submitted through the public intake form.
// Mobile and voucher carry unique indexes so concurrent writers cannot
// slip past the application-level prechecks. Voucher is a pointer:
// unassigned vouchers are stored as NULL, which keeps the unique index
// from colliding on empty strings.
type Registration struct {
	ID         uint64     `gorm:"primaryKey" json:"id"`
	FullName   string     `gorm:"size:128;not null" json:"fullName"`
	Address    string     `gorm:"size:255" json:"address"`
	Mobile     string     `gorm:"size:20;not null;uniqueIndex:idx_registrations_mobile" json:"mobile"`
	Reference  string     `gorm:"size:64" json:"reference"`
	Voucher    *string    `gorm:"size:64;uniqueIndex:idx_registrations_voucher" json:"voucher"`
	Approved   bool       `gorm:"default:false" json:"approved"`
	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedAt *time.Time `json:"approvedAt"`
}

// VoucherValue returns the assigned voucher or "" when none is set.
func (r Registration) VoucherValue() string {
	if r.Voucher == nil {
		return ""
	}
	return *r.Voucher
}
