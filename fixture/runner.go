package fixture

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/tanuki/meta"
	"github.com/chazu/tanuki/report"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tanuki.fixture")

// MismatchError reports a case whose dispatch result did not equal the
// expected tree. Both sides are carried in rendered form for diagnosis.
type MismatchError struct {
	Case string
	Got  string
	Want string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("case %q: result mismatch\n  got:  %s\n  want: %s", e.Case, e.Got, e.Want)
}

// Runner executes fixture cases and grades them with the structural
// comparator. A failed case halts the run; failures are never hidden by
// continuing past them.
type Runner struct {
	ledger *report.Ledger
}

// NewRunner creates a runner without a ledger.
func NewRunner() *Runner {
	return &Runner{}
}

// AttachLedger makes the runner record every graded case to l.
func (r *Runner) AttachLedger(l *report.Ledger) {
	r.ledger = l
}

// Run executes cases in order, stopping at the first failure.
func (r *Runner) Run(cases []Case) error {
	for _, c := range cases {
		if err := r.RunCase(c); err != nil {
			return err
		}
	}
	log.Infof("all %d cases passed", len(cases))
	return nil
}

// RunCase evaluates one case and grades its result.
func (r *Runner) RunCase(c Case) error {
	res, err := c.Eval()
	if err != nil {
		r.record(c, meta.Nil, false)
		return fmt.Errorf("case %q: dispatch failed: %w", c.Name, err)
	}

	got := res.First()
	if c.WantCount > 0 && res.Count() != c.WantCount {
		r.record(c, got, false)
		return fmt.Errorf("case %q: produced %d results, want %d", c.Name, res.Count(), c.WantCount)
	}

	if !meta.Equal(got, c.Expected) {
		r.record(c, got, false)
		mismatch := &MismatchError{
			Case: c.Name,
			Got:  meta.Render(got),
			Want: meta.Render(c.Expected),
		}
		log.Errorf("%s", mismatch.Error())
		return mismatch
	}

	r.record(c, got, true)
	log.Debugf("case %q ok", c.Name)
	return nil
}

func (r *Runner) record(c Case, got meta.Value, pass bool) {
	if r.ledger == nil {
		return
	}
	gotDigest, err := meta.DigestString(got)
	if err != nil {
		gotDigest = ""
	}
	wantDigest, err := meta.DigestString(c.Expected)
	if err != nil {
		wantDigest = ""
	}
	if err := r.ledger.Record(c.Name, pass, gotDigest, wantDigest); err != nil {
		log.Errorf("ledger record failed for %q: %s", c.Name, err.Error())
	}
}
