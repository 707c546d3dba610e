package statistics

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// Report is the summary written after a simulation, in the same HCL
// dialect as the table configuration
type Report struct {
	Strategy   string           `hcl:"strategy"`
	Rounds     int              `hcl:"rounds"`
	Mean       float64          `hcl:"mean"`
	StdDev     float64          `hcl:"stddev"`
	StdError   float64          `hcl:"stderr"`
	CILow      float64          `hcl:"ci95_low"`
	CIHigh     float64          `hcl:"ci95_high"`
	Median     float64          `hcl:"median"`
	Blackjacks int              `hcl:"blackjacks"`
	Busts      int              `hcl:"busts"`
	Doubles    int              `hcl:"doubles"`
	Perfect    int              `hcl:"perfect"`
	Swept      int              `hcl:"swept"`
	Opponents  []OpponentReport `hcl:"opponent,block"`
}

// OpponentReport is one head-to-head block of a Report
type OpponentReport struct {
	Name   string `hcl:"name,label"`
	Wins   int    `hcl:"wins"`
	Losses int    `hcl:"losses"`
	Pushes int    `hcl:"pushes"`
}

// NewReport summarises s
func NewReport(s *Statistics, strategy string) Report {
	low, high := s.ConfidenceInterval95()
	r := Report{
		Strategy:   strategy,
		Rounds:     s.Rounds,
		Mean:       s.Mean(),
		StdDev:     s.StdDev(),
		StdError:   s.StdError(),
		CILow:      low,
		CIHigh:     high,
		Median:     s.Median(),
		Blackjacks: s.Blackjacks,
		Busts:      s.Busts,
		Doubles:    s.Doubles,
		Perfect:    s.Perfect,
		Swept:      s.Swept,
	}
	for _, role := range game.Opponents {
		o := s.Opponent(role)
		r.Opponents = append(r.Opponents, OpponentReport{
			Name:   role.String(),
			Wins:   o.Wins,
			Losses: o.Losses,
			Pushes: o.Pushes,
		})
	}
	return r
}

// HCL encodes the report
func (r Report) HCL() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(&r, f.Body())
	return f.Bytes()
}

// WriteReport atomically writes the report to path
func WriteReport(path string, r Report) error {
	return fileutil.WriteFileAtomic(path, r.HCL(), 0o644)
}
