package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validProfile = `
origin_station: "GAMBIR (GMR)"
destination_station: "BANDUNG (BD)"
departure_month: "Jun"
departure_date: "15"
train_name: "ARGO PARAHYANGAN"
ticket_price: "150.000"
bank_name: "BNI"
order_phone: "081234567890"
order_address: "Jl. Merdeka 1, Jakarta"
order_email: "orderer@example.com"
bypass_captcha: false
select_seat: false
schedule:
  release_date: "2025-06-01"
  release_time: "08:00"
  time_zone: "Asia/Jakarta"
passengers:
  - name: "Budi Santoso"
    id_card: "3171234567890001"
    prefix: "mr"
  - name: "Siti Rahayu"
    id_card: "3171234567890002"
    prefix: "mrs"
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	profile, err := LoadProfile(writeProfile(t, validProfile))
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if profile.OriginStation != "GAMBIR (GMR)" {
		t.Fatalf("unexpected origin: %q", profile.OriginStation)
	}
	if len(profile.Passengers) != 2 {
		t.Fatalf("expected 2 passengers, got %d", len(profile.Passengers))
	}
	if profile.Schedule.Zone != "Asia/Jakarta" {
		t.Fatalf("unexpected zone: %q", profile.Schedule.Zone)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected missing file to fail")
	}
}

func TestLoadProfileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mangle func(string) string
	}{
		{"missing train name", func(s string) string {
			return strings.Replace(s, `train_name: "ARGO PARAHYANGAN"`, `train_name: ""`, 1)
		}},
		{"missing release date", func(s string) string {
			return strings.Replace(s, `release_date: "2025-06-01"`, `release_date: ""`, 1)
		}},
		{"no passengers", func(s string) string {
			return s[:strings.Index(s, "passengers:")] + "passengers: []\n"
		}},
		{"extra passenger without prefix", func(s string) string {
			return strings.Replace(s, `prefix: "mrs"`, `prefix: ""`, 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadProfile(writeProfile(t, tt.mangle(validProfile))); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
