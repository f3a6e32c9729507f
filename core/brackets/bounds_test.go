package brackets

import (
	"math/big"
	"testing"
)

func r(n, d int64) *big.Rat {
	return big.NewRat(n, d)
}

func ri(n int64) *big.Rat {
	return big.NewRat(n, 1)
}

func TestSpansPartitionWholeLine(t *testing.T) {
	separators := []*big.Rat{ri(5_000), ri(10_000), ri(50_000)}

	probes := []*big.Rat{
		r(-1, 1), ri(0), ri(1), r(9_999, 2),
		ri(5_000), r(10_001, 2), ri(10_000), ri(10_001),
		ri(50_000), ri(50_001), ri(1_000_000_000),
	}

	for _, inclusive := range []bool{true, false} {
		spans := Spans(separators, inclusive)
		if len(spans) != len(separators)+1 {
			t.Fatalf("expected %d spans, got %d", len(separators)+1, len(spans))
		}

		for _, probe := range probes {
			hits := 0
			for _, span := range spans {
				if span.Contains(probe) {
					hits++
				}
			}
			if hits != 1 {
				t.Errorf("inclusive=%v: value %s contained in %d spans, want exactly 1",
					inclusive, probe.RatString(), hits)
			}
		}
	}
}

func TestSpansBoundaryConvention(t *testing.T) {
	separators := []*big.Rat{ri(10_000)}

	inclusive := Spans(separators, true)
	if !inclusive[0].Contains(ri(10_000)) {
		t.Error("inclusive convention: separator value must belong to the lower span")
	}
	if inclusive[1].Contains(ri(10_000)) {
		t.Error("inclusive convention: separator value must not belong to the upper span")
	}

	exclusive := Spans(separators, false)
	if exclusive[0].Contains(ri(10_000)) {
		t.Error("flipped convention: separator value must not belong to the lower span")
	}
	if !exclusive[1].Contains(ri(10_000)) {
		t.Error("flipped convention: separator value must belong to the upper span")
	}
}

func TestSpansNoSeparators(t *testing.T) {
	spans := Spans(nil, true)
	if len(spans) != 1 {
		t.Fatalf("expected a single unbounded span, got %d", len(spans))
	}
	for _, probe := range []*big.Rat{r(-1_000_000, 1), ri(0), ri(1_000_000_000)} {
		if !spans[0].Contains(probe) {
			t.Errorf("unbounded span must contain %s", probe.RatString())
		}
	}
}
