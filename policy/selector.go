// SPDX-License-Identifier: Unlicense OR MIT

package policy

// Select implements the selection rule: compute relative
// scale r, then choose the smallest level l such that r <= ψₗ·m, where
// m is the pressure-derived selection modifier. If no level satisfies
// that, the finest level (L-1) is chosen.
func Select(table Table, relativeScale float64, modifier float64) int {
	for i, l := range table {
		if relativeScale <= l.MaxRelScale*modifier {
			return i
		}
	}
	return len(table) - 1
}
