package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMoney(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "1,234.56", want: "1234.56"},
		{raw: "6,06", want: "6.06"},
		{raw: "$45", want: "45"},
		{raw: " USD 1,000.00 ", want: "1000"},
		{raw: "-12.5", want: "-12.5"},
		{raw: "0", want: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := Money(tc.raw)
			if !got.Valid {
				t.Fatalf("expected %q to parse", tc.raw)
			}
			if !got.Decimal.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got.Decimal)
			}
		})
	}
}

func TestMoneyAbsent(t *testing.T) {
	for _, raw := range []string{"", "   ", "n/a", "1.2.3"} {
		if got := Money(raw); got.Valid {
			t.Fatalf("expected %q to be absent, got %s", raw, got.Decimal)
		}
	}
}

func TestPositive(t *testing.T) {
	if Positive(Money("0")) {
		t.Fatalf("zero is not positive")
	}
	if Positive(Money("")) {
		t.Fatalf("absent is not positive")
	}
	if !Positive(Money("0.01")) {
		t.Fatalf("expected one cent to be positive")
	}
}

func TestInteger(t *testing.T) {
	cases := map[string]int64{
		"2019":       2019,
		"123,456 mi": 123456,
		"-5":         -5,
		" 42 ":       42,
	}
	for raw, want := range cases {
		got := Integer(raw)
		if got == nil || *got != want {
			t.Fatalf("Integer(%q) = %v, want %d", raw, got, want)
		}
	}
	for _, raw := range []string{"", "abc", "-"} {
		if got := Integer(raw); got != nil {
			t.Fatalf("Integer(%q) expected nil, got %d", raw, *got)
		}
	}
}

func TestDate(t *testing.T) {
	cases := []struct {
		raw   string
		year  int
		month time.Month
		day   int
	}{
		{raw: "2024-03-09", year: 2024, month: time.March, day: 9},
		{raw: "03/15/2024", year: 2024, month: time.March, day: 15},
		{raw: "2023-11-02T08:30:00Z", year: 2023, month: time.November, day: 2},
		{raw: "2024-03-09xyz", year: 2024, month: time.March, day: 9},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := Date(tc.raw)
			if got == nil {
				t.Fatalf("expected %q to parse", tc.raw)
			}
			if got.Year() != tc.year || got.Month() != tc.month || got.Day() != tc.day {
				t.Fatalf("unexpected date %s", got)
			}
			if got.Location() != time.UTC {
				t.Fatalf("expected UTC, got %s", got.Location())
			}
		})
	}

	for _, raw := range []string{"", "not a date", "9999-99-99"} {
		if got := Date(raw); got != nil {
			t.Fatalf("Date(%q) expected nil, got %s", raw, got)
		}
	}
}

func TestISOInstant(t *testing.T) {
	ts := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	if got := ISOInstant(ts); got != "2024-03-09T12:00:00.000Z" {
		t.Fatalf("unexpected instant %q", got)
	}
	if got := DateString("garbage"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestKey(t *testing.T) {
	if got := Key("  Ada@Example.COM "); got != "ada@example.com" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Key("1HGCM82633A004352"); got != "1hgcm82633a004352" {
		t.Fatalf("unexpected vin key %q", got)
	}
}

func TestTruthy(t *testing.T) {
	for _, raw := range []string{"Yes", "TRUE", "1", "x"} {
		if !Truthy(raw) {
			t.Fatalf("expected %q to be truthy", raw)
		}
	}
	for _, raw := range []string{"", "no", "0", "false"} {
		if Truthy(raw) {
			t.Fatalf("expected %q to be falsy", raw)
		}
	}
}

func TestRole(t *testing.T) {
	cases := map[string]string{
		"technician":     RoleMechanic,
		"Tech":           RoleMechanic,
		"advisor":        RoleAdvisor,
		"Service Writer": RoleAdvisor,
		"Shop Foreman":   RoleManager,
		"Parts Manager":  RoleParts,
		"Owner/Operator": RoleOwner,
		"Office Admin":   RoleAdmin,
		"":               RoleMechanic,
		"lot attendant":  RoleMechanic,
	}
	for raw, want := range cases {
		if got := Role(raw); got != want {
			t.Fatalf("Role(%q) = %q, want %q", raw, got, want)
		}
	}
}
