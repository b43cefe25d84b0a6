package text

import (
	"github.com/walteh/gitsr/pkg/expression"
	"gitlab.com/tozd/go/errors"
)

// 🛠️ Mode selects whether replacements are recorded as applied
type Mode int

const (
	ModeSearch Mode = iota
	ModeFix
)

func (m Mode) String() string {
	if m == ModeFix {
		return "fix"
	}
	return "search"
}

// 📍 Match is one occurrence found while transforming a buffer
type Match struct {
	Expression int    // index of the expression that matched
	Line       int    // 1-based line in the text the expression ran against
	Before     string // full line before the substitution
	After      string // fix mode only: line at the same index after the substitution
	Old        string // matched text
	New        string // fix mode only: replacement text
}

// 📊 Result is the outcome of running an expression chain over a buffer
type Result struct {
	Original string
	Modified string
	Matches  []Match
}

// Changed reports whether the chain produced different text
func (r *Result) Changed() bool {
	return r.Original != r.Modified
}

// ByExpression groups matches by expression index, keeping their order
func (r *Result) ByExpression() [][]Match {
	var groups [][]Match
	pos := map[int]int{}
	for _, m := range r.Matches {
		i, ok := pos[m.Expression]
		if !ok {
			i = len(groups)
			pos[m.Expression] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}
	return groups
}

// Transform applies exprs in order, each one seeing the previous output, and
// records every match with its line context
func Transform(text string, exprs []*expression.Expression, stage expression.Stage, mode Mode) (*Result, error) {
	res := &Result{Original: text}

	current := text
	for _, expr := range exprs {
		next, reps, err := expr.Replace(current, stage)
		if err != nil {
			return nil, errors.Errorf("transforming text: %w", err)
		}
		if len(reps) == 0 {
			continue
		}

		before := NewLineIndex(current)
		after := NewLineIndex(next)
		for _, rep := range reps {
			line := before.LineOf(rep.Start)
			m := Match{
				Expression: expr.Index,
				Line:       line + 1,
				Before:     before.Line(line),
				Old:        rep.Old,
			}
			if mode == ModeFix {
				// same 0-based index in the new text; drifts when a
				// replacement adds or removes newlines
				m.After = after.Line(line)
				m.New = rep.New
			}
			res.Matches = append(res.Matches, m)
		}
		current = next
	}

	res.Modified = current
	return res, nil
}

// Substitute runs the chain without recording matches
func Substitute(text string, exprs []*expression.Expression, stage expression.Stage) (string, error) {
	current := text
	for _, expr := range exprs {
		next, _, err := expr.Replace(current, stage)
		if err != nil {
			return "", errors.Errorf("substituting %q: %w", text, err)
		}
		current = next
	}
	return current, nil
}
