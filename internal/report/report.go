// Package report exports events and analyses as Word documents.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"geowatch/internal/event"
)

const separator = "--------------------------------------------------"

// Events writes a document listing events, one block per event.
func Events(path, title string, events []event.Event, generated time.Time) error {
	if title == "" {
		title = "Global Events Report"
	}
	f := docx.NewFile()

	run := f.AddParagraph().AddText(title)
	run.Size(20)

	run = f.AddParagraph().AddText(fmt.Sprintf("Generated %s | %d events", generated.UTC().Format(time.RFC1123), len(events)))
	run.Size(10)
	run.Color("808080")

	counts := countByType(events)
	p := f.AddParagraph()
	p.AddText(fmt.Sprintf("Verbal cooperation: %d | Material cooperation: %d | Verbal conflict: %d | Material conflict: %d",
		counts[event.VerbalCooperation], counts[event.MaterialCooperation],
		counts[event.VerbalConflict], counts[event.MaterialConflict]))

	f.AddParagraph()
	f.AddParagraph().AddText(separator)
	f.AddParagraph()

	for _, e := range events {
		run = f.AddParagraph().AddText(e.FullName)
		run.Size(14)

		run = f.AddParagraph().AddText(fmt.Sprintf("%s | Country: %s | Goldstein: %s | %s",
			e.QuadClass.Name(), e.CountryCode, score(e.GoldsteinScore), e.TimeAgo))
		run.Color(typeColor(e.QuadClass))

		if actor := actorLine(e); actor != "" {
			f.AddParagraph().AddText(actor)
		}

		run = f.AddParagraph().AddText(e.Source)
		run.Size(10)
		run.Color("0000FF")

		f.AddParagraph()
	}

	return f.Save(path)
}

// Insights writes an AI analysis of one event.
func Insights(path string, e event.Event, insights string, generated time.Time) error {
	f := docx.NewFile()

	run := f.AddParagraph().AddText("Event Analysis")
	run.Size(20)

	run = f.AddParagraph().AddText(e.FullName)
	run.Size(16)

	run = f.AddParagraph().AddText(fmt.Sprintf("%s | Goldstein: %s | Reported: %s",
		e.QuadClass.Name(), score(e.GoldsteinScore), e.TimeAgo))
	run.Color(typeColor(e.QuadClass))

	if actor := actorLine(e); actor != "" {
		f.AddParagraph().AddText(actor)
	}

	run = f.AddParagraph().AddText(e.Source)
	run.Size(10)
	run.Color("0000FF")

	run = f.AddParagraph().AddText("Generated " + generated.UTC().Format(time.RFC1123))
	run.Size(10)
	run.Color("808080")

	f.AddParagraph()
	f.AddParagraph().AddText(separator)
	f.AddParagraph()

	for _, para := range strings.Split(insights, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if heading, ok := markdownHeading(para); ok {
			run = f.AddParagraph().AddText(heading)
			run.Size(14)
			continue
		}
		f.AddParagraph().AddText(para)
	}

	return f.Save(path)
}

func countByType(events []event.Event) map[event.QuadClass]int {
	counts := make(map[event.QuadClass]int, 4)
	for _, e := range events {
		counts[e.QuadClass]++
	}
	return counts
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func actorLine(e event.Event) string {
	var parts []string
	if c := e.ActorCountry(); c != "" {
		parts = append(parts, "Actor country: "+c)
	}
	if t := e.ActorType(); t != "" {
		parts = append(parts, "Actor type: "+t)
	}
	return strings.Join(parts, " | ")
}

// typeColor matches the dashboard's marker colors.
func typeColor(q event.QuadClass) string {
	switch q {
	case event.VerbalCooperation:
		return "008000"
	case event.MaterialCooperation:
		return "0000FF"
	case event.VerbalConflict:
		return "FFA500"
	case event.MaterialConflict:
		return "FF0000"
	default:
		return "808080"
	}
}

func markdownHeading(s string) (string, bool) {
	if strings.Contains(s, "\n") || !strings.HasPrefix(s, "#") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(s, "#")), true
}
