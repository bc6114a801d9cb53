package kdvp

import "fmt"

// ValidatePositions scans every ledger's full history for a negative running
// position, which means more units were sold than were ever held at that
// point, typically an unhandled stock split or corporate action in the
// broker export. One violation string per offending lot; empty means the
// registry is consistent. The caller decides whether to abort.
func (r *Registry) ValidatePositions() []string {
	var violations []string
	for _, ledger := range r.Ledgers() {
		for _, lot := range ledger.Lots() {
			if lot.Position.IsNegative() {
				violations = append(violations, fmt.Sprintf(
					"%s: running position %s on %s, sell quantity exceeds shares held",
					ledger.Name, lot.Position.String(), lot.Date.Format("2006-01-02")))
			}
		}
	}
	return violations
}
