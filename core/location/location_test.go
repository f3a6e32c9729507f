package location

import (
	"math/big"
	"testing"

	"relocation-cost/core/brackets"
	"relocation-cost/internal/errors"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"US", Key{Country: "US"}},
		{"usa", Key{Country: "US"}},
		{"United States/California", Key{Country: "US", Region: "CA"}},
		{"US/CA/San Francisco", Key{Country: "US", Region: "CA", City: "San Francisco"}},
		{"us/ca/sf", Key{Country: "US", Region: "CA", City: "San Francisco"}},
		{"US/TX/AUS", Key{Country: "US", Region: "TX", City: "Austin"}},
		{"DE/BY/Munich", Key{Country: "DE", Region: "BY", City: "Munich"}},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if err != nil {
			t.Errorf("ParseKey(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseKeyRejectsBadInput(t *testing.T) {
	for _, in := range []string{"US/CA/SF/Mission", "US//SF", ""} {
		if _, err := ParseKey(in); err == nil {
			t.Errorf("ParseKey(%q): expected an error", in)
		}
	}
}

func TestProfileLayersAreAdditive(t *testing.T) {
	r := NewResolver()

	federal, err := r.Profile(Key{Country: "US"})
	if err != nil {
		t.Fatalf("Profile(US): %v", err)
	}
	state, err := r.Profile(Key{Country: "US", Region: "CA"})
	if err != nil {
		t.Fatalf("Profile(US/CA): %v", err)
	}
	city, err := r.Profile(Key{Country: "US", Region: "CA", City: "San Francisco"})
	if err != nil {
		t.Fatalf("Profile(US/CA/San Francisco): %v", err)
	}

	gross := big.NewRat(150_000, 1)
	fedTax, err := federal.CalcTaxes(gross, brackets.StatusSingle)
	if err != nil {
		t.Fatalf("federal CalcTaxes: %v", err)
	}
	stateTax, err := state.CalcTaxes(gross, brackets.StatusSingle)
	if err != nil {
		t.Fatalf("state CalcTaxes: %v", err)
	}
	cityTax, err := city.CalcTaxes(gross, brackets.StatusSingle)
	if err != nil {
		t.Fatalf("city CalcTaxes: %v", err)
	}

	// Each deeper layer stacks on the previous ones.
	caOnly := new(big.Rat).Sub(stateTax, fedTax)
	if caOnly.Sign() <= 0 {
		t.Error("state layer should add tax on top of federal")
	}
	sfOnly := new(big.Rat).Sub(cityTax, stateTax)
	want := new(big.Rat).Mul(gross, big.NewRat(15, 1000))
	if sfOnly.Cmp(want) != 0 {
		t.Errorf("city layer added %s, want flat 1.5%% = %s", sfOnly.RatString(), want.RatString())
	}
}

func TestProfileNoTaxRegionIsFederalOnly(t *testing.T) {
	r := NewResolver()

	federal, err := r.Profile(Key{Country: "US"})
	if err != nil {
		t.Fatalf("Profile(US): %v", err)
	}
	austin, err := r.Profile(Key{Country: "US", Region: "TX", City: "Austin"})
	if err != nil {
		t.Fatalf("Profile(US/TX/Austin): %v", err)
	}

	gross := big.NewRat(95_000, 1)
	fedTax, _ := federal.CalcTaxes(gross, brackets.StatusJoint)
	texTax, _ := austin.CalcTaxes(gross, brackets.StatusJoint)
	if fedTax.Cmp(texTax) != 0 {
		t.Errorf("Austin tax %s should equal federal-only %s", texTax.RatString(), fedTax.RatString())
	}
}

func TestProfileUnknownJurisdiction(t *testing.T) {
	r := NewResolver()

	_, err := r.Profile(Key{Country: "FR"})
	if err == nil {
		t.Fatal("expected an error for an unknown country")
	}
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected %s, got %v", errors.TypeNotFound, err)
	}

	if _, err := r.Profile(Key{Country: "US", Region: "CA", City: "Fresno"}); err == nil {
		t.Fatal("expected an error for an unknown city")
	}
}

func TestProfileMemoized(t *testing.T) {
	r := NewResolver()
	key := Key{Country: "US", Region: "CA", City: "San Francisco"}

	first, err := r.Profile(key)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	second, err := r.Profile(key)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if first != second {
		t.Error("expected the memoized profile on the second lookup")
	}

	// Registering a custom layer invalidates the memo.
	r.Register(Key{Country: "US", Region: "CA", City: "San Francisco"}, nil, big.NewRat(2, 1))
	third, err := r.Profile(key)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if third == first {
		t.Error("expected the memo to be invalidated after Register")
	}
}

func TestLivingCostMostSpecificWins(t *testing.T) {
	r := NewResolver()

	sf, ok := r.LivingCost(Key{Country: "US", Region: "CA", City: "San Francisco"})
	if !ok {
		t.Fatal("expected a living cost for San Francisco")
	}
	if sf.Cmp(big.NewRat(170, 100)) != 0 {
		t.Errorf("San Francisco index = %s, want 17/10", sf.RatString())
	}

	tx, ok := r.LivingCost(Key{Country: "US", Region: "TX"})
	if !ok {
		t.Fatal("expected a living cost for Texas")
	}
	if tx.Cmp(big.NewRat(93, 100)) != 0 {
		t.Errorf("Texas index = %s, want 93/100", tx.RatString())
	}

	if _, ok := r.LivingCost(Key{Country: "FR"}); ok {
		t.Error("unknown jurisdiction should have no living cost")
	}
}

func TestKnownListsJurisdictions(t *testing.T) {
	r := NewResolver()
	r.Register(Key{Country: "DE"}, nil, nil)

	keys := r.Known()
	if len(keys) != len(builtins)+1 {
		t.Fatalf("expected %d known jurisdictions, got %d", len(builtins)+1, len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1].String() >= keys[i].String() {
			t.Fatal("Known() must be sorted")
		}
	}
}
