// Minimal end‑to‑end integration test for the orgsite API.
//
// Requires a running server seeded with an admin account (cmd/initdb).
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"

	"github.com/google/uuid"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:8080")
	username = getenv("ADMIN_USERNAME", "admin")
	password = getenv("ADMIN_PASSWORD", "")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

var client *http.Client

func main() {
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}
	jar, _ := cookiejar.New(nil)
	client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	mobile := "99" + uuid.NewString()[:8]
	submitRegistration(mobile)
	login()
	id := findRegistration(mobile)

	approveWithoutVoucher(id, mobile)
	assignVoucherAndApprove(id, mobile)
	downloadExports()
	deleteRegistration(id, mobile)

	fmt.Println("✓ all endpoints passed")
}

// ----------------------------- public intake

func submitRegistration(mobile string) {
	form := url.Values{
		"full_name": {"Smoke Test"},
		"mobile":    {mobile},
		"address":   {"1 Test Lane"},
	}
	postForm("/event-registration", form, http.StatusSeeOther)

	// A second submit with the same mobile must be refused.
	postForm("/event-registration", form, http.StatusUnprocessableEntity)
}

// ----------------------------- admin session

func login() {
	form := url.Values{"username": {username}, "password": {password}}
	res := postForm("/admin/login", form, http.StatusSeeOther)
	if loc := res.Header.Get("Location"); loc != "/admin/dashboard" {
		log.Fatalf("login: redirected to %s, credentials rejected?", loc)
	}
}

func findRegistration(mobile string) uint64 {
	var regs []struct {
		ID     uint64 `json:"id"`
		Mobile string `json:"mobile"`
	}
	getJSON("/admin/api/registrations", &regs)
	for _, r := range regs {
		if r.Mobile == mobile {
			return r.ID
		}
	}
	log.Fatalf("registrations: submitted mobile %s not listed", mobile)
	return 0
}

// ----------------------------- approval workflow

func approveWithoutVoucher(id uint64, mobile string) {
	postForm(fmt.Sprintf("/admin/approve_registration/%d", id), url.Values{}, http.StatusSeeOther)
	var regs []struct {
		Mobile   string `json:"mobile"`
		Approved bool   `json:"approved"`
	}
	getJSON("/admin/api/registrations", &regs)
	for _, r := range regs {
		if r.Mobile == mobile && r.Approved {
			log.Fatal("approve: approved without a voucher")
		}
	}
}

func assignVoucherAndApprove(id uint64, mobile string) {
	form := url.Values{
		"full_name": {"Smoke Test"},
		"mobile":    {mobile},
		"address":   {"1 Test Lane"},
		"voucher":   {"SMOKE-" + uuid.NewString()[:8]},
		"approve":   {"on"},
	}
	postForm(fmt.Sprintf("/admin/edit_registration/%d", id), form, http.StatusSeeOther)

	var regs []struct {
		ID       uint64 `json:"id"`
		Approved bool   `json:"approved"`
	}
	getJSON("/admin/api/registrations", &regs)
	for _, r := range regs {
		if r.ID == id {
			if !r.Approved {
				log.Fatal("approve: registration still pending after edit")
			}
			return
		}
	}
	log.Fatal("approve: registration vanished")
}

// ----------------------------- exports

func downloadExports() {
	checkDownload("/admin/export/excel", "PK")
	checkDownload("/admin/export/pdf", "%PDF")
}

func checkDownload(path, magic string) {
	res := doGet(path, http.StatusOK)
	defer res.Body.Close()
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(res.Body, head); err != nil || string(head) != magic {
		log.Fatalf("GET %s: payload does not start with %q", path, magic)
	}
}

func deleteRegistration(id uint64, mobile string) {
	postForm(fmt.Sprintf("/admin/delete_registration/%d", id), url.Values{}, http.StatusSeeOther)
	var regs []struct {
		Mobile string `json:"mobile"`
	}
	getJSON("/admin/api/registrations", &regs)
	for _, r := range regs {
		if r.Mobile == mobile {
			log.Fatal("delete: registration still listed")
		}
	}
}

// ----------------------------- helpers

func postForm(path string, form url.Values, want int) *http.Response {
	res, err := client.PostForm(baseURL+path, form)
	if err != nil {
		log.Fatalf("POST %s: %v", path, err)
	}
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("POST %s: want %d got %d", path, want, res.StatusCode)
	}
	return res
}

func doGet(path string, want int) *http.Response {
	res, err := client.Get(baseURL + path)
	if err != nil {
		log.Fatalf("GET %s: %v", path, err)
	}
	if res.StatusCode != want {
		res.Body.Close()
		log.Fatalf("GET %s: want %d got %d", path, want, res.StatusCode)
	}
	return res
}

func getJSON(path string, out any) {
	res := doGet(path, http.StatusOK)
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		log.Fatalf("GET %s decode: %v", path, err)
	}
}
