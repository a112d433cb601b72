package decode

import (
	"regexp"
	"strconv"
)

// Patterns are compiled once at package init and only read afterwards.
var (
	weightRe   = regexp.MustCompile(`Weight: (\d+(?:\.\d+)?) lb`)
	heightRe   = regexp.MustCompile(`Height: (\d+(?:\.\d+)?) in`)
	headCircRe = regexp.MustCompile(`Head circumference: (\d+(?:\.\d+)?) in`)

	leftMLRe  = regexp.MustCompile(`\b(\d+) ?L\b`)
	rightMLRe = regexp.MustCompile(`\b(\d+) ?R\b`)
)

// Growth holds the sub-measurements embedded in a Measure row.
type Growth struct {
	WeightLB            *float64
	HeightIn            *float64
	HeadCircumferenceIn *float64
}

// GrowthFrom extracts weight, height and head circumference from text.
// Each value is independent and absent when its pattern does not match.
func GrowthFrom(text string) Growth {
	return Growth{
		WeightLB:            matchFloat(weightRe, text),
		HeightIn:            matchFloat(heightRe, text),
		HeadCircumferenceIn: matchFloat(headCircRe, text),
	}
}

// Merge fills the values missing in g from other.
func (g Growth) Merge(other Growth) Growth {
	if g.WeightLB == nil {
		g.WeightLB = other.WeightLB
	}
	if g.HeightIn == nil {
		g.HeightIn = other.HeightIn
	}
	if g.HeadCircumferenceIn == nil {
		g.HeadCircumferenceIn = other.HeadCircumferenceIn
	}
	return g
}

// PumpSides extracts the "<N>L" and "<N>R" millilitre tokens from a note.
func PumpSides(text string) (left, right *int) {
	return matchInt(leftMLRe, text), matchInt(rightMLRe, text)
}

func matchFloat(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

func matchInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}
