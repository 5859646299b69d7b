package services

import (
	"EmotionTrackerGo/models"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const reportTimelineLimit = 20

// ReportData is everything rendered into the PDF report.
type ReportData struct {
	Username       string
	GeneratedAt    time.Time
	Summary        []models.SummaryEntry
	Goal           *models.WeeklyGoal
	Recommendation string
	Timeline       []models.EmotionRecord
}

// BuildReport gathers report data for the recent window. The summary table prefers the saved
// dashboard summary and falls back to a fresh aggregation.
func (s *EmotionService) BuildReport(ctx context.Context, userID, username string) (*ReportData, error) {
	start, end := s.RecentWindow()
	records, err := s.records.QueryWindow(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	goal, err := s.CurrentGoal(ctx, userID)
	if err != nil && !errors.Is(err, ErrGoalNotFound) {
		return nil, err
	}

	fresh := Aggregate(records, start, end)
	summary, saved := s.LatestSnapshot(ctx, userID)
	if !saved {
		summary = ForDisplay(fresh)
	}

	timeline := append([]models.EmotionRecord(nil), records...)
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Timestamp.After(timeline[j].Timestamp)
	})
	if len(timeline) > reportTimelineLimit {
		timeline = timeline[:reportTimelineLimit]
	}

	return &ReportData{
		Username:       username,
		GeneratedAt:    s.now().UTC(),
		Summary:        summary,
		Goal:           goal,
		Recommendation: ReportRecommendation(fresh, goal),
		Timeline:       timeline,
	}, nil
}

// WriteReportPDF renders the report as an A4 PDF.
func WriteReportPDF(w io.Writer, data *ReportData) error {
	pdf := buildReportPDF(data)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return pdf.Output(w)
}

func buildReportPDF(data *ReportData) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetTitle("Emotion Detection Report", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(248, 23, 11)
	pdf.CellFormat(0, 12, "Emotion Detection Report", "", 1, "C", false, 0, "")
	pdf.SetDrawColor(255, 158, 205)
	pdf.Line(14, pdf.GetY()+2, 196, pdf.GetY()+2)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(74, 74, 74)
	user := data.Username
	if user == "" {
		user = "-"
	}
	pdf.CellFormat(0, 6, tr("User: "+user), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+data.GeneratedAt.Format("2006-01-02 15:04:05")+" UTC", "", 1, "L", false, 0, "")

	section(pdf, "Emotion Summary")
	if len(data.Summary) == 0 {
		pdf.CellFormat(0, 6, "No dashboard summary available.", "", 1, "L", false, 0, "")
	} else {
		header := []string{"Emotion", "Count", "Percentage"}
		widths := []float64{60, 30, 30}
		tableHeader(pdf, header, widths, [3]int{255, 119, 201})
		pdf.SetFillColor(255, 230, 243)
		for _, e := range data.Summary {
			pdf.CellFormat(widths[0], 7, capitalize(string(e.Emotion)), "1", 0, "C", true, 0, "")
			pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", e.Count), "1", 0, "C", true, 0, "")
			pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.1f%%", e.Percentage), "1", 1, "C", true, 0, "")
		}

		if slices := pieSlices(data.Summary); len(slices) > 0 {
			section(pdf, "Emotion Distribution")
			drawPie(pdf, slices)
		}
	}

	section(pdf, "Your Current Goal")
	if data.Goal == nil {
		pdf.CellFormat(0, 6, "Target Emotion: not set", "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 6, "Target Emotion: "+string(data.Goal.TargetEmotion), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Week of "+data.Goal.WeekStart.Format("2006-01-02"), "", 1, "L", false, 0, "")
		if data.Goal.Notes != "" {
			pdf.MultiCell(0, 6, tr("Notes: "+data.Goal.Notes), "", "L", false)
		}
	}

	section(pdf, "Personalized Recommendation")
	recommendation := data.Recommendation
	if recommendation == "" {
		recommendation = "Not enough data for a recommendation."
	}
	pdf.MultiCell(0, 6, tr(recommendation), "", "L", false)

	section(pdf, "Recent Emotion Timeline")
	if len(data.Timeline) == 0 {
		pdf.CellFormat(0, 6, "No timeline available.", "", 1, "L", false, 0, "")
	} else {
		header := []string{"Timestamp", "Emotion", "Confidence"}
		widths := []float64{40, 35, 35}
		tableHeader(pdf, header, widths, [3]int{6, 2, 4})
		pdf.SetFillColor(255, 238, 249)
		for _, r := range data.Timeline {
			conf := 0.0
			if r.Confidence != nil {
				conf = *r.Confidence
			}
			pdf.CellFormat(widths[0], 7, r.Timestamp.UTC().Format("15:04:05"), "1", 0, "C", true, 0, "")
			pdf.CellFormat(widths[1], 7, capitalize(string(r.Emotion)), "1", 0, "C", true, 0, "")
			pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.1f%%", conf*100), "1", 1, "C", true, 0, "")
		}
	}

	return pdf
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(194, 24, 91)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(74, 74, 74)
}

func tableHeader(pdf *fpdf.Fpdf, header []string, widths []float64, fill [3]int) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(fill[0], fill[1], fill[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range header {
		ln := 0
		if i == len(header)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, h, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(74, 74, 74)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const (
	pieRadius    = 30.0
	pieArcStep   = 4.0 // degrees per polygon edge
	legendRow    = 7.0
	legendSwatch = 4.0
)

var pieColors = map[models.EmotionLabel][3]int{
	models.Happy:    {255, 193, 7},
	models.Sad:      {33, 150, 243},
	models.Angry:    {244, 67, 54},
	models.Fear:     {156, 39, 176},
	models.Disgust:  {76, 175, 80},
	models.Surprise: {255, 119, 201},
	models.Neutral:  {158, 158, 158},
	models.Unknown:  {96, 125, 139},
}

// pieSlice is one sector of the distribution chart. Angles are in degrees, counterclockwise
// from three o'clock.
type pieSlice struct {
	Emotion    models.EmotionLabel
	Percentage float64
	Start      float64
	Sweep      float64
}

// pieSlices lays out sectors clockwise from twelve o'clock. Zero counts get no sector.
func pieSlices(summary []models.SummaryEntry) []pieSlice {
	total := 0
	for _, e := range summary {
		if e.Count > 0 {
			total += e.Count
		}
	}
	if total == 0 {
		return nil
	}

	slices := make([]pieSlice, 0, len(summary))
	angle := 90.0
	for _, e := range summary {
		if e.Count <= 0 {
			continue
		}
		sweep := 360 * float64(e.Count) / float64(total)
		slices = append(slices, pieSlice{
			Emotion:    e.Emotion,
			Percentage: percentage(e.Count, total),
			Start:      angle,
			Sweep:      sweep,
		})
		angle -= sweep
	}
	return slices
}

func drawPie(pdf *fpdf.Fpdf, slices []pieSlice) {
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+2*pieRadius+6 > pageH-bottom {
		pdf.AddPage()
	}

	left, _, _, _ := pdf.GetMargins()
	top := pdf.GetY() + 2
	cx, cy := left+pieRadius+4, top+pieRadius

	pdf.SetDrawColor(255, 255, 255)
	pdf.SetLineWidth(0.4)
	for _, sl := range slices {
		c := pieColor(sl.Emotion)
		pdf.SetFillColor(c[0], c[1], c[2])
		if len(slices) == 1 {
			pdf.Circle(cx, cy, pieRadius, "F")
			continue
		}
		pdf.Polygon(sectorPoints(cx, cy, pieRadius, sl.Start, sl.Sweep), "DF")
	}

	lx := cx + pieRadius + 14
	for i, sl := range slices {
		ly := top + 6 + float64(i)*legendRow
		c := pieColor(sl.Emotion)
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.Rect(lx, ly, legendSwatch, legendSwatch, "F")
		pdf.SetXY(lx+legendSwatch+3, ly-0.5)
		pdf.CellFormat(60, 5, fmt.Sprintf("%s %.1f%%", capitalize(string(sl.Emotion)), sl.Percentage), "", 0, "L", false, 0, "")
	}

	pdf.SetDrawColor(255, 158, 205)
	pdf.SetLineWidth(0.2)
	pdf.SetXY(left, top+2*pieRadius+4)
}

// sectorPoints approximates a pie sector as a polygon: the center followed by points along
// the arc, going clockwise.
func sectorPoints(cx, cy, r, start, sweep float64) []fpdf.PointType {
	steps := int(math.Ceil(sweep / pieArcStep))
	if steps < 1 {
		steps = 1
	}
	points := make([]fpdf.PointType, 0, steps+2)
	points = append(points, fpdf.PointType{X: cx, Y: cy})
	for i := 0; i <= steps; i++ {
		rad := (start - sweep*float64(i)/float64(steps)) * math.Pi / 180
		// page y grows downwards
		points = append(points, fpdf.PointType{X: cx + r*math.Cos(rad), Y: cy - r*math.Sin(rad)})
	}
	return points
}

func pieColor(label models.EmotionLabel) [3]int {
	if c, ok := pieColors[label]; ok {
		return c
	}
	return pieColors[models.Unknown]
}
