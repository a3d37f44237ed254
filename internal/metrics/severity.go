package metrics

// Band is the discrete classification of a cyclomatic complexity value.
type Band int

const (
	BandPass Band = iota
	BandCaution
	BandHigh
	BandCritical
	BandExtreme
)

// Severity pairs a band with the label the reports print for it.
type Severity struct {
	Band  Band
	Label string
}

// Icon returns the marker rendered next to the label in report tables.
func (b Band) Icon() string {
	switch b {
	case BandPass:
		return "✅"
	case BandCaution:
		return "⚠️"
	case BandHigh:
		return "🔶"
	case BandCritical:
		return "🔴"
	default:
		return "🤯"
	}
}

// Classify maps a cyclomatic complexity value to a severity band.
// The breakpoints are contract, inclusive on both ends per band:
// 0-7 pass, 8-9 caution, 10-11 high, 12-14 critical, 15+ extreme.
func Classify(complexity int) Severity {
	switch {
	case complexity <= 7:
		return Severity{BandPass, "pass"}
	case complexity <= 9:
		return Severity{BandCaution, "caution"}
	case complexity <= 11:
		return Severity{BandHigh, "high"}
	case complexity <= 14:
		return Severity{BandCritical, "critical"}
	default:
		return Severity{BandExtreme, "extreme"}
	}
}
