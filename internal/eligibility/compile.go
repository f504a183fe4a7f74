package eligibility

import (
	"fmt"
	"strings"
)

// The compiler lowers conditions to EXISTS/NOT EXISTS sub-queries over the
// fact store, correlated on worker.id. Both the executing query and the
// debug SQL view go through this one function, so the two can never drift
// apart.

const factTable = "eligibility_fact"

// compileCondition returns the SQL fragment and bind params for one
// condition. ok is false for an unrecognized type; the caller substitutes an
// always-true predicate so one bad config entry cannot sink the whole query.
func compileCondition(c Condition) (sql string, params []any, ok bool) {
	switch c.Type {
	case ConditionExists:
		frag, args := factMatch(c.Category, c.Value, c.Values)
		return "EXISTS (" + frag + ")", args, true

	case ConditionNotExists:
		frag, args := factMatch(c.Category, c.Value, c.Values)
		return "NOT EXISTS (" + frag + ")", args, true

	case ConditionExistsOrNone:
		// Workers with no facts in the category pass; workers with facts
		// must match the value.
		matchFrag, matchArgs := factMatch(c.Category, c.Value, nil)
		anyFrag, anyArgs := factAny(c.Category)
		return "(EXISTS (" + matchFrag + ") OR NOT EXISTS (" + anyFrag + "))",
			append(matchArgs, anyArgs...), true

	case ConditionNotExistsCategory:
		frag, args := factAny(c.Category)
		return "NOT EXISTS (" + frag + ")", args, true

	case ConditionExistsAll:
		if len(c.Values) == 0 {
			return "1 = 1", nil, true
		}
		clauses := make([]string, 0, len(c.Values))
		var args []any
		for _, v := range c.Values {
			frag, fragArgs := factMatch(c.Category, v, nil)
			clauses = append(clauses, "EXISTS ("+frag+")")
			args = append(args, fragArgs...)
		}
		return "(" + strings.Join(clauses, " AND ") + ")", args, true

	case ConditionNotExistsUnlessExists:
		// The exemption overrides the block: one boolean predicate, not two
		// ANDed conditions.
		blockFrag, blockArgs := factMatch(c.Category, c.Value, nil)
		exemptFrag, exemptArgs := factMatch(c.UnlessCategory, c.UnlessValue, nil)
		return "(NOT EXISTS (" + blockFrag + ") OR EXISTS (" + exemptFrag + "))",
			append(blockArgs, exemptArgs...), true
	}
	return "", nil, false
}

// factMatch correlates on the outer worker row and matches category plus
// either a single value or any of a value set.
func factMatch(category, value string, values []string) (string, []any) {
	base := "SELECT 1 FROM " + factTable + " ef WHERE ef.worker_id = worker.id AND ef.category = ?"
	if len(values) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		args := make([]any, 0, len(values)+1)
		args = append(args, category)
		for _, v := range values {
			args = append(args, v)
		}
		return fmt.Sprintf("%s AND ef.value IN (%s)", base, placeholders), args
	}
	return base + " AND ef.value = ?", []any{category, value}
}

func factAny(category string) (string, []any) {
	return "SELECT 1 FROM " + factTable + " ef WHERE ef.worker_id = worker.id AND ef.category = ?", []any{category}
}
