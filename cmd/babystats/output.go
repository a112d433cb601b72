package main

import (
	"fmt"
	"strings"

	"github.com/pkordes/babystats/internal/decode"
	"github.com/pkordes/babystats/internal/domain"
)

const clockLayout = "2006-01-02 15:04"

// describe renders one event as a single console line.
func describe(e domain.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-10s", e.Time().Format(clockLayout), e.Kind())

	switch ev := e.(type) {
	case domain.SleepSession:
		b.WriteString(session(ev.Session))
	case domain.TummyTime:
		b.WriteString(session(ev.Session))
	case domain.BreastFeeding:
		fmt.Fprintf(&b, "%s breast %s", ev.Side, session(ev.Session))
	case domain.Bottle:
		fmt.Fprintf(&b, "bottle %s oz %s", trimFloat(ev.Ounces), strings.ReplaceAll(string(ev.Milk), "_", " "))
		note(&b, ev.Note)
	case domain.DiaperChange:
		var parts []string
		if ev.Pee {
			parts = append(parts, "pee")
		}
		if ev.Poo {
			parts = append(parts, "poo")
		}
		if len(parts) == 0 {
			parts = append(parts, "dry")
		}
		b.WriteString(strings.Join(parts, "+"))
		note(&b, ev.Note)
	case domain.Pumping:
		fmt.Fprintf(&b, "%d ml", ev.VolumeML)
		note(&b, ev.Note)
	case domain.GrowthMeasurement:
		b.WriteString(growth(ev))
	case domain.Note:
		b.WriteString(ev.Text)
	}
	return strings.TrimRight(b.String(), " ")
}

func session(s domain.Session) string {
	out := decode.FormatHHMM(s.Duration)
	if !s.Closed() {
		out += " (in progress)"
	}
	if s.Note != "" {
		out += "  " + s.Note
	}
	return out
}

func note(b *strings.Builder, text string) {
	if text != "" {
		b.WriteString("  ")
		b.WriteString(text)
	}
}

func growth(m domain.GrowthMeasurement) string {
	var parts []string
	if m.WeightLB != nil {
		parts = append(parts, "weight "+trimFloat(*m.WeightLB)+" lb")
	}
	if m.HeightIn != nil {
		parts = append(parts, "height "+trimFloat(*m.HeightIn)+" in")
	}
	if m.HeadCircumferenceIn != nil {
		parts = append(parts, "head "+trimFloat(*m.HeadCircumferenceIn)+" in")
	}
	if len(parts) == 0 {
		return "no measurements"
	}
	return strings.Join(parts, ", ")
}

// describePumping renders a pumping session with its side breakdown. Sides
// that do not add up to the total are flagged.
func describePumping(p domain.Pumping) string {
	line := fmt.Sprintf("%s  %4d ml  L %s  R %s",
		p.Start.Format(clockLayout), p.VolumeML, optionalML(p.LeftML), optionalML(p.RightML))
	if (p.LeftML != nil || p.RightML != nil) && !p.SidesMatchTotal() {
		line += "  (sides do not match total)"
	}
	return line
}

func optionalML(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// describeDay renders one DaySummary as a single line.
func describeDay(d domain.DaySummary) string {
	parts := []string{
		d.Date.String(),
		fmt.Sprintf("feeds %d (bottle %d, %s oz; breast %d, %s)",
			d.Feedings, d.Bottles, trimFloat(d.BottleOunces), d.BreastFeedings, decode.FormatHHMM(d.BreastTime)),
		fmt.Sprintf("diapers %d (pee %d, poo %d)", d.Diapers, d.Pees, d.Poos),
		fmt.Sprintf("sleeps %d, %s (longest %s)", d.Sleeps, decode.FormatHHMM(d.SleepTotal), decode.FormatHHMM(d.LongestSleep)),
	}
	if d.TummyTime > 0 {
		parts = append(parts, "tummy "+decode.FormatHHMM(d.TummyTime))
	}
	if d.PumpedML > 0 {
		parts = append(parts, fmt.Sprintf("pumped %d ml", d.PumpedML))
	}
	if d.Notes > 0 {
		parts = append(parts, fmt.Sprintf("notes %d", d.Notes))
	}
	if d.Measurement != nil {
		parts = append(parts, growth(*d.Measurement))
	}
	return strings.Join(parts, "  ")
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
