package location

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"relocation-cost/core/brackets"
)

func writeTable(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing table file: %v", err)
	}
}

func TestLoadFileRegistersJurisdiction(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "wa.hcl", `
jurisdiction {
  country     = "US"
  region      = "WA"
  living_cost = "1.15"
}

jurisdiction {
  country = "US"
  region  = "WA"
  city    = "Seattle"

  schedule "single" {
    separators = ["50000"]
    rates      = ["0.01", "0.02"]
  }
  schedule "joint" {
    separators = ["100000"]
    rates      = ["0.01", "0.02"]
  }
}
`)

	r := NewResolver()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	profile, err := r.Profile(Key{Country: "US", Region: "WA", City: "Seattle"})
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}

	// Federal plus the custom city schedule: 60,000 single is
	// federal tax + (50000*0.01 + 10000*0.02).
	gross := big.NewRat(60_000, 1)
	federal, err := r.Profile(Key{Country: "US"})
	if err != nil {
		t.Fatalf("Profile(US): %v", err)
	}
	fedTax, _ := federal.CalcTaxes(gross, brackets.StatusSingle)
	total, err := profile.CalcTaxes(gross, brackets.StatusSingle)
	if err != nil {
		t.Fatalf("CalcTaxes: %v", err)
	}

	cityPart := new(big.Rat).Sub(total, fedTax)
	want := big.NewRat(700, 1)
	if cityPart.Cmp(want) != 0 {
		t.Errorf("custom city tax = %s, want %s", cityPart.RatString(), want.RatString())
	}

	lc, ok := r.LivingCost(Key{Country: "US", Region: "WA"})
	if !ok {
		t.Fatal("expected a living cost for the custom region")
	}
	if lc.Cmp(big.NewRat(115, 100)) != 0 {
		t.Errorf("living cost = %s, want 23/20", lc.RatString())
	}
}

func TestLoadFileFlatRate(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "city.hcl", `
jurisdiction {
  country   = "US"
  region    = "CA"
  city      = "Oakland"
  flat_rate = "0.005"
}
`)

	r := NewResolver()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	oakland, err := r.Profile(Key{Country: "US", Region: "CA", City: "Oakland"})
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	state, err := r.Profile(Key{Country: "US", Region: "CA"})
	if err != nil {
		t.Fatalf("Profile(US/CA): %v", err)
	}

	gross := big.NewRat(100_000, 1)
	cityTax, _ := oakland.CalcTaxes(gross, brackets.StatusSeparate)
	stateTax, _ := state.CalcTaxes(gross, brackets.StatusSeparate)
	got := new(big.Rat).Sub(cityTax, stateTax)
	if got.Cmp(big.NewRat(500, 1)) != 0 {
		t.Errorf("flat city layer = %s, want 500", got.RatString())
	}
}

func TestLoadFileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "sf.hcl", `
jurisdiction {
  country   = "US"
  region    = "CA"
  city      = "San Francisco"
  flat_rate = "0.02"
}
`)

	r := NewResolver()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	sf, err := r.Profile(Key{Country: "US", Region: "CA", City: "San Francisco"})
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	state, err := r.Profile(Key{Country: "US", Region: "CA"})
	if err != nil {
		t.Fatalf("Profile(US/CA): %v", err)
	}

	gross := big.NewRat(100_000, 1)
	cityTax, _ := sf.CalcTaxes(gross, brackets.StatusSingle)
	stateTax, _ := state.CalcTaxes(gross, brackets.StatusSingle)
	got := new(big.Rat).Sub(cityTax, stateTax)
	if got.Cmp(big.NewRat(2_000, 1)) != 0 {
		t.Errorf("override layer = %s, want 2000 (2%%), not the built-in 1.5%%", got.RatString())
	}
}

func TestLoadFileRejectsBadTables(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "rate out of range",
			content: `
jurisdiction {
  country   = "ZZ"
  flat_rate = "1.5"
}
`,
		},
		{
			name: "mismatched rate count",
			content: `
jurisdiction {
  country = "ZZ"
  schedule "single" {
    separators = ["1000"]
    rates      = ["0.1"]
  }
}
`,
		},
		{
			name: "flat_rate with schedules",
			content: `
jurisdiction {
  country   = "ZZ"
  flat_rate = "0.1"
  schedule "single" {
    separators = []
    rates      = ["0.1"]
  }
}
`,
		},
		{
			name: "negative living cost",
			content: `
jurisdiction {
  country     = "ZZ"
  living_cost = "-1"
}
`,
		},
		{
			name:    "not hcl at all",
			content: `{"country": "ZZ"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTable(t, dir, "bad.hcl", tt.content)
			if err := NewResolver().LoadDir(dir); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	r := NewResolver()
	if err := r.LoadDir(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Fatalf("missing directory should not be an error: %v", err)
	}
}
