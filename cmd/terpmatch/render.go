package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/recommend"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	typeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

func renderStatus(status model.ParseStatus) {
	switch status.Stage {
	case model.StageFetching, model.StageFetchComplete:
		fmt.Println(dimStyle.Render(status.Stage.String()))
	case model.StageProductsFound:
		fmt.Println(dimStyle.Render(fmt.Sprintf("found %d products", status.Current)))
	case model.StageExtractingStrains:
		fmt.Println(dimStyle.Render(fmt.Sprintf("reading menu tile %d/%d", status.Current, status.Total)))
	case model.StageResolvingTerpenes:
		fmt.Println(dimStyle.Render(fmt.Sprintf("resolving terpenes %d/%d", status.Current, status.Total)))
	case model.StageComplete:
		fmt.Println(headerStyle.Render("\nBest matches for you:"))
		renderResults(status.Results)
	case model.StageError:
		fmt.Println(errStyle.Render(status.Message))
	}
}

func renderResults(results []model.SimilarityResult) {
	for i, r := range results {
		score := scoreStyle.Render(fmt.Sprintf("%3.0f%%", r.Overall*100))
		fmt.Printf("%2d. %s  %s\n", i+1, score, renderStrain(r.Strain))
	}
	if len(results) == 0 {
		fmt.Println(dimStyle.Render("no matches"))
	}
}

func renderStrain(s model.StrainData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(s.Name))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(string(s.Type)))
	if s.THCMax > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  THC %.1f-%.1f%%", s.THCMin, s.THCMax)))
	}
	if s.Price > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  $%.2f", s.Price)))
	}
	return b.String()
}

func renderTerpene(info recommend.TerpeneInfo) {
	fmt.Println(headerStyle.Render(info.Name))
	fmt.Println(info.Description)
	fmt.Printf("%s %s\n", dimStyle.Render("effects:"), strings.Join(info.Effects, ", "))
	fmt.Printf("%s %s\n", dimStyle.Render("medical:"), strings.Join(info.Medical, ", "))
	fmt.Printf("%s %s\n", dimStyle.Render("flavors:"), strings.Join(info.Flavors, ", "))
}
