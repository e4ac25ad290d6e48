package ustparser

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// parser accumulates the warnings of a single Parse call. It is created
// fresh per call so nothing leaks between decodes.
type parser struct {
	warnings []string
}

func (p *parser) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("ustparser: %s", msg)
	p.warnings = append(p.warnings, msg)
}

// isNullToken reports whether a field value means "no value": empty or the
// literal null some editors write out.
func isNullToken(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "null")
}

// intOr coerces s to an integer. It never fails: null tokens and garbage
// both resolve to def, with garbage logged for diagnosis.
func (p *parser) intOr(s string, def int) int {
	if isNullToken(s) {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		p.warnf("bad integer %q, using %d", s, def)
		return def
	}
	return v
}

// floatOr is intOr for floats.
func (p *parser) floatOr(s string, def float64) float64 {
	if isNullToken(s) {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.warnf("bad number %q, using %g", s, def)
		return def
	}
	return v
}

// floatList parses a comma-separated float list; blank entries are skipped
// and unparsable ones fall back to zero.
func (p *parser) floatList(s string) []float64 {
	if isNullToken(s) {
		return nil
	}
	var out []float64
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, p.floatOr(part, 0))
	}
	return out
}

// intList parses a comma-separated integer list the same way.
func (p *parser) intList(s string) []int {
	if isNullToken(s) {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, p.intOr(part, 0))
	}
	return out
}

// tagList parses a comma-separated list of curve-shape tags verbatim.
func tagList(s string) []string {
	if isNullToken(s) {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// parsePBS parses the PBS field: either a single number or a
// "offsetTicks;offsetSemitones" pair.
func (p *parser) parsePBS(s string) PitchBendStart {
	if isNullToken(s) {
		return PitchBendStart{}
	}
	if first, second, found := strings.Cut(s, ";"); found {
		return PitchBendStart{
			OffsetTicks:     p.floatOr(first, 0),
			OffsetSemitones: p.floatOr(second, 0),
		}
	}
	return PitchBendStart{OffsetTicks: p.floatOr(s, 0)}
}
