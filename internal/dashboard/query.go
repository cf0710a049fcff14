package dashboard

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/kaleidemoskop/demodash/internal/selection"
)

// stateFromQuery overlays scenario, year, benchmark and history query
// parameters onto base. Absent parameters keep base's values.
func stateFromQuery(base selection.State, q url.Values) (selection.State, error) {
	st := base
	if v := q.Get("scenario"); v != "" {
		sc, err := selection.ParseScenario(v)
		if err != nil {
			return base, err
		}
		st.Scenario = sc
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return base, fmt.Errorf("invalid year %q", v)
		}
		st.Year = year
	}
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"benchmark", &st.BenchmarkOn},
		{"history", &st.HistoryOn},
	} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("invalid %s flag %q", f.name, v)
		}
		*f.dst = b
	}
	return st, nil
}
