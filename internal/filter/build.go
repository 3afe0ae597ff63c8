package filter

import (
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
)

// Build combines a domain list and a script predicate into one filter; a
// record must pass both. It returns nil when neither is given.
func Build(domains []string, script string) (ckzlib.FilterFunc, error) {
	var fns []ckzlib.FilterFunc
	if len(domains) > 0 {
		f, err := Domains(domains)
		if err != nil {
			return nil, err
		}
		fns = append(fns, f)
	}
	if script != "" {
		f, err := Script(script)
		if err != nil {
			return nil, err
		}
		fns = append(fns, f)
	}

	switch len(fns) {
	case 0:
		return nil, nil
	case 1:
		return fns[0], nil
	default:
		return func(rec ckzlib.CookieRecord) (bool, error) {
			for _, f := range fns {
				keep, err := f(rec)
				if err != nil || !keep {
					return false, err
				}
			}
			return true, nil
		}, nil
	}
}
