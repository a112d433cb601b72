package export

import (
	"strconv"
	"time"

	"github.com/pkordes/babystats/internal/domain"
)

var summaryHeader = []string{
	"date", "feedings", "bottles", "bottle_oz", "breast_feedings", "breast_min",
	"diapers", "pees", "poos", "sleeps", "sleep_total_min", "longest_sleep_min",
	"tummy_time_min", "pumped_ml", "notes", "weight_lb", "height_in", "head_circumference_in",
}

type summaryRow struct {
	Date            string   `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Feedings        int64    `json:"feedings" parquet:"name=feedings, type=INT64"`
	Bottles         int64    `json:"bottles" parquet:"name=bottles, type=INT64"`
	BottleOunces    float64  `json:"bottle_oz" parquet:"name=bottle_oz, type=DOUBLE"`
	BreastFeedings  int64    `json:"breast_feedings" parquet:"name=breast_feedings, type=INT64"`
	BreastMinutes   float64  `json:"breast_min" parquet:"name=breast_min, type=DOUBLE"`
	Diapers         int64    `json:"diapers" parquet:"name=diapers, type=INT64"`
	Pees            int64    `json:"pees" parquet:"name=pees, type=INT64"`
	Poos            int64    `json:"poos" parquet:"name=poos, type=INT64"`
	Sleeps          int64    `json:"sleeps" parquet:"name=sleeps, type=INT64"`
	SleepTotalMin   float64  `json:"sleep_total_min" parquet:"name=sleep_total_min, type=DOUBLE"`
	LongestSleepMin float64  `json:"longest_sleep_min" parquet:"name=longest_sleep_min, type=DOUBLE"`
	TummyTimeMin    float64  `json:"tummy_time_min" parquet:"name=tummy_time_min, type=DOUBLE"`
	PumpedML        int64    `json:"pumped_ml" parquet:"name=pumped_ml, type=INT64"`
	Notes           int64    `json:"notes" parquet:"name=notes, type=INT64"`
	WeightLB        *float64 `json:"weight_lb,omitempty" parquet:"name=weight_lb, type=DOUBLE, repetitiontype=OPTIONAL"`
	HeightIn        *float64 `json:"height_in,omitempty" parquet:"name=height_in, type=DOUBLE, repetitiontype=OPTIONAL"`
	HeadCircIn      *float64 `json:"head_circumference_in,omitempty" parquet:"name=head_circumference_in, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func newSummaryRow(d domain.DaySummary) summaryRow {
	r := summaryRow{
		Date:            d.Date.String(),
		Feedings:        int64(d.Feedings),
		Bottles:         int64(d.Bottles),
		BottleOunces:    d.BottleOunces,
		BreastFeedings:  int64(d.BreastFeedings),
		BreastMinutes:   minutes(d.BreastTime),
		Diapers:         int64(d.Diapers),
		Pees:            int64(d.Pees),
		Poos:            int64(d.Poos),
		Sleeps:          int64(d.Sleeps),
		SleepTotalMin:   minutes(d.SleepTotal),
		LongestSleepMin: minutes(d.LongestSleep),
		TummyTimeMin:    minutes(d.TummyTime),
		PumpedML:        int64(d.PumpedML),
		Notes:           int64(d.Notes),
	}
	if m := d.Measurement; m != nil {
		r.WeightLB = m.WeightLB
		r.HeightIn = m.HeightIn
		r.HeadCircIn = m.HeadCircumferenceIn
	}
	return r
}

func (r summaryRow) csvRecord() []string {
	return []string{
		r.Date,
		itoa(r.Feedings), itoa(r.Bottles), ftoa(r.BottleOunces), itoa(r.BreastFeedings), ftoa(r.BreastMinutes),
		itoa(r.Diapers), itoa(r.Pees), itoa(r.Poos),
		itoa(r.Sleeps), ftoa(r.SleepTotalMin), ftoa(r.LongestSleepMin),
		ftoa(r.TummyTimeMin), itoa(r.PumpedML), itoa(r.Notes),
		optional(r.WeightLB), optional(r.HeightIn), optional(r.HeadCircIn),
	}
}

var seriesHeader = []string{"date", "metric", "value", "unit"}

type seriesRow struct {
	Date   string  `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Metric string  `json:"metric" parquet:"name=metric, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Value  float64 `json:"value" parquet:"name=value, type=DOUBLE"`
	Unit   string  `json:"unit" parquet:"name=unit, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

func (r seriesRow) csvRecord() []string {
	return []string{r.Date, r.Metric, ftoa(r.Value), r.Unit}
}

func minutes(d time.Duration) float64 { return d.Minutes() }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func optional(f *float64) string {
	if f == nil {
		return ""
	}
	return ftoa(*f)
}
