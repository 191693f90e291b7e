package profit

import (
	"fmt"
	"strconv"
	"strings"
)

// applyAdjustment evaluates a buy-price adjustment expression such as
// "+10% -$2" against a base value. Terms are whitespace separated and
// applied left to right: a percentage term scales the running value at that
// point, an absolute term (with optional $ prefix) adds or subtracts
// dollars. "+10% -$2" on 100 is 110, then 108.
func applyAdjustment(base float64, expr string) (float64, error) {
	v := base
	for _, tok := range strings.Fields(expr) {
		sign := 1.0
		s := tok
		switch {
		case strings.HasPrefix(s, "+"):
			s = s[1:]
		case strings.HasPrefix(s, "-"):
			sign = -1
			s = s[1:]
		}

		if strings.HasSuffix(s, "%") {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid percentage term %q", tok)
			}
			v += sign * v * pct / 100
			continue
		}

		amt, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid adjustment term %q", tok)
		}
		v += sign * amt
	}
	return v, nil
}
