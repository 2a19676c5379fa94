package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"myCatalog/domain"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func writeComparison(w io.Writer, items []domain.ProductSnapshot, similarity domain.SimilarityResult, ranking []domain.RankedCandidate, rows []domain.SpecRow) error {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	best := ranking[0].Product.ID
	highlight := func(col int, s string) string {
		if items[col].ID == best {
			return green(s)
		}
		return s
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	headers := []string{"Specification"}
	for i, p := range items {
		headers = append(headers, highlight(i, p.Name))
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	summary := []struct {
		label string
		value func(domain.ProductSnapshot) string
	}{
		{"Price", func(p domain.ProductSnapshot) string { return strconv.FormatFloat(p.Price, 'f', 2, 64) }},
		{"Rating", func(p domain.ProductSnapshot) string { return strconv.FormatFloat(p.Rating, 'f', 1, 64) }},
		{"Reviews", func(p domain.ProductSnapshot) string { return strconv.Itoa(p.ReviewCount) }},
		{"Features", func(p domain.ProductSnapshot) string { return strconv.Itoa(len(p.Features)) }},
	}
	for _, s := range summary {
		row := []string{s.label}
		for i, p := range items {
			row = append(row, highlight(i, s.value(p)))
		}
		data = append(data, row)
	}
	for _, r := range rows {
		row := []string{r.Name}
		for i, v := range r.Values {
			if v == "" {
				v = "-"
			}
			row = append(row, highlight(i, v))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Similarity: %s\n", yellow(fmt.Sprintf("%d%%", similarity.Score))); err != nil {
		return err
	}
	winner := ranking[0]
	if _, err := fmt.Fprintf(w, "Best choice: %s (score %.1f)\n", green(winner.Product.Name), winner.Score); err != nil {
		return err
	}
	for _, reason := range winner.Reasons {
		if _, err := fmt.Fprintf(w, "  + %s\n", reason); err != nil {
			return err
		}
	}
	for i, c := range ranking[1:] {
		line := fmt.Sprintf("%d. %s (score %.1f)", i+2, c.Product.Name, c.Score)
		if len(c.Reasons) > 0 {
			line += ": " + strings.Join(c.Reasons, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func writeTopSpecs(w io.Writer, specs []domain.SpecSummary) error {
	if len(specs) == 0 {
		_, err := fmt.Fprintln(w, "No specifications found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Specification", "Products", "Values"})

	var data [][]string
	for i, s := range specs {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			s.Name,
			strconv.Itoa(s.Frequency),
			strings.Join(s.Values, ", "),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
