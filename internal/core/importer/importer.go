// Package importer reads and writes the campaign spreadsheet format: a
// header row followed by Name, Platform, Spend, Impressions, Clicks and
// Conversions columns in that order.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"traffic-analyzer/internal/core/domain"
)

// Header is the first line of the template.
var Header = []string{"Name", "Platform", "Spend", "Impressions", "Clicks", "Conversions"}

// ExampleRow is the sample campaign shipped in the template.
var ExampleRow = []string{"Test Campaign", "Facebook", "500", "10000", "250", "15"}

// TemplateFilename is the suggested download name.
const TemplateFilename = "campaign_template.csv"

// MaxRowBytes is the longest line Parse accepts.
const MaxRowBytes = 1 << 20

// Parse reads every data row of r. The first line is skipped. Rows without a
// name are dropped; numbers that do not parse become 0 and unknown platforms
// become Facebook. Status is active and Date is today for every row. If r
// fails mid-way no campaigns are returned. A line longer than MaxRowBytes is
// a *domain.ValidationError.
func Parse(r io.Reader, today time.Time) ([]domain.Campaign, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxRowBytes)

	date := domain.DateOf(today)
	var out []domain.Campaign
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		c, ok := parseRow(sc.Text())
		if !ok {
			continue
		}
		c.ID = uuid.NewString()
		c.Status = domain.StatusActive
		c.Date = date
		out = append(out, c)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, domain.NewValidationError("file", "row longer than 1 MiB")
		}
		return nil, fmt.Errorf("read campaign sheet: %w", err)
	}
	return out, nil
}

func parseRow(line string) (domain.Campaign, bool) {
	cols := strings.Split(strings.TrimRight(line, "\r"), ",")
	col := func(i int) string {
		if i < len(cols) {
			return strings.TrimSpace(cols[i])
		}
		return ""
	}

	name := col(0)
	if name == "" {
		return domain.Campaign{}, false
	}
	platform, ok := domain.ParsePlatform(col(1))
	if !ok {
		platform = domain.PlatformFacebook
	}
	return domain.Campaign{
		Name:        name,
		Platform:    platform,
		Spend:       number(col(2)),
		Impressions: int64(number(col(3))),
		Clicks:      int64(number(col(4))),
		Conversions: int64(number(col(5))),
	}, true
}

// number parses s leniently. Anything that is not a finite, non-negative
// number is 0.
func number(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= math.MaxInt64 {
		return 0
	}
	return v
}

// WriteTemplate writes the header and one example row.
func WriteTemplate(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", strings.Join(Header, ","), strings.Join(ExampleRow, ","))
	return err
}
