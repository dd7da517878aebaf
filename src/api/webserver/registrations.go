package webserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/navjeevan-trust/orgsite/src/api/registration"
	"github.com/navjeevan-trust/orgsite/src/api/reports"
)

const (
	excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType   = "application/pdf"
)

type Registrations struct {
	svc       registration.Service
	rdb       *redis.Client
	sanitizer *bluemonday.Policy
}

func NewRegistrations(db *gorm.DB, rdb *redis.Client) Registrations {
	return Registrations{
		svc: registration.NewService(db),
		rdb: rdb,
		// Registrations are free text typed by the public; strip
		// everything that looks like markup.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// IntakeForm backs the public registration page: it only surfaces the
// confirmation flash left by a successful submit.
func (h Registrations) IntakeForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"flashes": popFlashes(c, h.rdb)})
}

// Submit is the public intake endpoint. On success the browser is
// redirected back to a fresh form with a confirmation; on failure the
// submitted fields are echoed back so the form can re-render them.
func (h Registrations) Submit(c *gin.Context) {
	var req struct {
		FullName  string `form:"full_name" json:"fullName"`
		Address   string `form:"address" json:"address"`
		Mobile    string `form:"mobile" json:"mobile"`
		Reference string `form:"reference" json:"reference"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	req.FullName = h.sanitizer.Sanitize(req.FullName)
	req.Address = h.sanitizer.Sanitize(req.Address)
	req.Reference = h.sanitizer.Sanitize(req.Reference)
	req.Mobile = h.sanitizer.Sanitize(req.Mobile)

	id, err := h.svc.Create(req.FullName, req.Address, req.Mobile, req.Reference)
	if err != nil {
		msg := "Registration failed, please try again."
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, registration.ErrValidation):
			msg = "Full name and mobile number are required."
			status = http.StatusUnprocessableEntity
		case errors.Is(err, registration.ErrDuplicateContact):
			msg = "This mobile number is already registered."
			status = http.StatusUnprocessableEntity
		default:
			log.Printf("registrations: intake: %v", err)
		}
		c.JSON(status, gin.H{"err": msg, "fields": req})
		return
	}

	log.Printf("registrations: new registration %d (%s)", id, req.Mobile)
	pushFlash(c, h.rdb, "success", "Thank you! Your registration has been received.")
	c.Redirect(http.StatusSeeOther, "/event-registration")
}

// ListJSON is the machine-readable admin listing.
func (h Registrations) ListJSON(c *gin.Context) {
	regs, err := h.svc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, regs)
}

// Edit writes the full editable field set from the admin form,
// including voucher assignment and the approval checkbox.
func (h Registrations) Edit(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	in := registration.UpdateInput{
		FullName:         h.sanitizer.Sanitize(c.PostForm("full_name")),
		Mobile:           h.sanitizer.Sanitize(c.PostForm("mobile")),
		Address:          h.sanitizer.Sanitize(c.PostForm("address")),
		Reference:        h.sanitizer.Sanitize(c.PostForm("reference")),
		Voucher:          h.sanitizer.Sanitize(c.PostForm("voucher")),
		ApproveRequested: c.PostForm("approve") == "on" || c.PostForm("approve") == "true",
	}

	if err := h.svc.Update(id, in); err != nil {
		pushFlash(c, h.rdb, "danger", editErrorMessage(err))
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	log.Printf("registrations: %s edited registration %d", authFrom(c).Username, id)
	pushFlash(c, h.rdb, "success", "Registration updated successfully.")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h Registrations) Approve(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	voucher, err := h.svc.Approve(id)
	if err != nil {
		pushFlash(c, h.rdb, "danger", editErrorMessage(err))
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	log.Printf("registrations: %s approved registration %d (voucher %s)", authFrom(c).Username, id, voucher)
	pushFlash(c, h.rdb, "success", "Registration approved with voucher "+voucher+".")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h Registrations) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Delete(id); err != nil {
		pushFlash(c, h.rdb, "danger", editErrorMessage(err))
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}

	log.Printf("registrations: %s deleted registration %d", authFrom(c).Username, id)
	pushFlash(c, h.rdb, "success", "Registration deleted.")
	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// ExportExcel downloads the full registration set as a workbook. The
// query runs before any bytes are produced: a store failure is a hard
// 500, never a truncated file.
func (h Registrations) ExportExcel(c *gin.Context) {
	regs, err := h.svc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	payload, err := reports.Excel(reports.BuildRows(regs))
	if err != nil {
		log.Printf("registrations: excel export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "export failed"})
		return
	}
	filename := "registrations-" + time.Now().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, excelContentType, payload)
}

func (h Registrations) ExportPDF(c *gin.Context) {
	regs, err := h.svc.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	payload, err := reports.PDF(reports.BuildRows(regs), time.Now())
	if err != nil {
		log.Printf("registrations: pdf export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "export failed"})
		return
	}
	filename := "registrations-" + time.Now().Format("20060102-150405") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, pdfContentType, payload)
}

func editErrorMessage(err error) string {
	switch {
	case errors.Is(err, registration.ErrNotFound):
		return "Registration not found."
	case errors.Is(err, registration.ErrValidation):
		return "Full name and mobile number are required."
	case errors.Is(err, registration.ErrDuplicateContact):
		return "This mobile number belongs to another registration."
	case errors.Is(err, registration.ErrDuplicateVoucher):
		return "This voucher number is already assigned to another registration."
	case errors.Is(err, registration.ErrMissingVoucher):
		return "Assign a voucher number before approving."
	default:
		log.Printf("registrations: %v", err)
		return "The operation failed, please try again."
	}
}
