package location

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/zap"

	"relocation-cost/core/brackets"
	"relocation-cost/core/money"
	"relocation-cost/internal/errors"
	"relocation-cost/internal/logging"
)

// Custom jurisdiction tables are HCL files of jurisdiction blocks:
//
//	jurisdiction {
//	  country     = "US"
//	  region      = "WA"
//	  living_cost = "1.35"
//
//	  schedule "single" {
//	    separators = ["9875", "40125"]
//	    rates      = ["0.10", "0.12", "0.22"]
//	  }
//	}
//
// Separators and rates are decimal strings, not HCL numbers: the values
// feed exact-rational arithmetic and must not pass through a float.
// A block may give flat_rate instead of schedule blocks, mirroring how
// city taxes are usually defined.

type tableFile struct {
	Jurisdictions []jurisdictionBlock `hcl:"jurisdiction,block"`
}

type jurisdictionBlock struct {
	Country    string          `hcl:"country"`
	Region     string          `hcl:"region,optional"`
	City       string          `hcl:"city,optional"`
	LivingCost string          `hcl:"living_cost,optional"`
	FlatRate   string          `hcl:"flat_rate,optional"`
	Schedules  []scheduleBlock `hcl:"schedule,block"`
}

type scheduleBlock struct {
	Status     string   `hcl:"status,label"`
	Separators []string `hcl:"separators"`
	Rates      []string `hcl:"rates"`
}

// LoadFile parses one table file and registers its jurisdictions.
func (r *Resolver) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "reading table file "+path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return errors.Parsing("parsing table file "+path, diags)
	}

	var tables tableFile
	if diags := gohcl.DecodeBody(file.Body, nil, &tables); diags.HasErrors() {
		return errors.Parsing("decoding table file "+path, diags)
	}

	for _, block := range tables.Jurisdictions {
		key, e, err := block.build()
		if err != nil {
			return errors.Wrapf(errors.TypeConfig, err, "table file %s, jurisdiction %s", path, key.String())
		}
		logging.Debug("registering custom jurisdiction",
			zap.String("location", key.String()),
			zap.String("file", path))
		r.Register(key, e.profile, e.livingCost)
	}
	return nil
}

// LoadDir loads every *.hcl file in a directory. A missing directory is
// not an error: the default config points at a directory that may not
// exist yet.
func (r *Resolver) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.TypeConfig, "reading tables directory "+dir, err)
	}

	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".hcl") {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, ent.Name())); err != nil {
			return err
		}
	}
	return nil
}

// build converts one decoded block into a key and layer entry. The key
// components go through the same canonicalization as parsed locations,
// so a table naming "us" layers onto the built-in "US".
func (b jurisdictionBlock) build() (Key, entry, error) {
	key := Key{
		Country: canonical(b.Country, countryAliases, strings.ToUpper),
		Region:  canonical(b.Region, regionAliases, nil),
		City:    canonical(b.City, cityAliases, nil),
	}
	if key.Country == "" {
		return key, entry{}, errors.Construction("jurisdiction block needs a country")
	}

	var e entry
	if b.LivingCost != "" {
		lc, err := money.ParseRat(b.LivingCost)
		if err != nil {
			return key, entry{}, err
		}
		if lc.Sign() <= 0 {
			return key, entry{}, errors.Construction("living_cost must be positive")
		}
		e.livingCost = lc
	}

	if b.FlatRate != "" {
		if len(b.Schedules) > 0 {
			return key, entry{}, errors.Construction("flat_rate and schedule blocks are mutually exclusive")
		}
		rate, err := money.ParseRat(b.FlatRate)
		if err != nil {
			return key, entry{}, err
		}
		profile, err := brackets.FlatProfile(rate)
		if err != nil {
			return key, entry{}, err
		}
		e.profile = profile
		return key, e, nil
	}

	if len(b.Schedules) == 0 {
		// A jurisdiction with no schedules is legal: it contributes
		// only a living-cost index.
		return key, e, nil
	}

	schedules := make(map[brackets.FilingStatus]*brackets.Schedule, len(b.Schedules))
	for _, sb := range b.Schedules {
		status, err := brackets.ParseFilingStatus(sb.Status)
		if err != nil {
			return key, entry{}, err
		}
		separators, err := parseRats(sb.Separators)
		if err != nil {
			return key, entry{}, err
		}
		rates, err := parseRats(sb.Rates)
		if err != nil {
			return key, entry{}, err
		}
		sched, err := brackets.NewSchedule(separators, rates)
		if err != nil {
			return key, entry{}, err
		}
		schedules[status] = sched
	}
	e.profile = brackets.NewProfile(schedules)
	return key, e, nil
}

func parseRats(vals []string) ([]*big.Rat, error) {
	out := make([]*big.Rat, len(vals))
	for i, v := range vals {
		r, err := money.ParseRat(v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
