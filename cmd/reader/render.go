package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"inkwell/internal/client/page"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	itemStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 0, 2)

	markStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Margin(1, 0)

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32"))
)

// Render formats a view for a terminal of the given width.
func Render(v page.View, width int) string {
	if width < 20 {
		width = 20
	}
	var b strings.Builder

	if v.Failed {
		b.WriteString(failureStyle.Render(v.Title + "\n" + v.Notice))
		b.WriteString("\n")
		if v.Retry != "" {
			b.WriteString(subtitleStyle.Render("retry: reader open " + quoteArg(v.Retry)))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(titleStyle.Render(highlight(v.Title)))
	b.WriteString("\n")
	if v.Subtitle != "" {
		b.WriteString(subtitleStyle.Render(v.Subtitle))
		b.WriteString("\n")
	}
	if v.Notice != "" {
		b.WriteString(noticeStyle.Render(v.Notice))
		b.WriteString("\n")
	}
	if v.Body != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Margin(1, 0).Render(v.Body))
		b.WriteString("\n")
	}

	inner := width - 6
	for _, it := range v.Items {
		lines := []string{highlight(it.Title)}
		if it.Meta != "" {
			lines = append(lines, subtitleStyle.Render(it.Meta))
		}
		if it.Summary != "" {
			lines = append(lines, lipgloss.NewStyle().Width(inner).Render(highlight(it.Summary)))
		}
		if it.URL != "" {
			lines = append(lines, linkStyle.Render(it.URL))
		}
		b.WriteString(itemStyle.Width(inner).Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	if len(v.Filters) > 0 {
		b.WriteString("\n")
		b.WriteString(renderLinks(v.Filters))
	}
	if len(v.Terms) > 0 {
		b.WriteString("\n")
		b.WriteString(renderLinks(v.Terms))
	}
	if v.Pager != nil && v.Pager.Pages > 1 {
		b.WriteString("\n")
		b.WriteString(renderPager(v.Pager))
	}
	return b.String()
}

func renderLinks(links []page.Link) string {
	var b strings.Builder
	for _, l := range links {
		label := l.Label
		if l.Active {
			label = activeStyle.Render("• " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label + "  " + linkStyle.Render(l.URL) + "\n")
	}
	return b.String()
}

func renderPager(p *page.Pager) string {
	parts := []string{}
	if p.Prev != "" {
		parts = append(parts, "prev "+linkStyle.Render(p.Prev))
	}
	var nums []string
	for _, l := range p.Links {
		if l.Active {
			nums = append(nums, activeStyle.Render("["+l.Label+"]"))
			continue
		}
		nums = append(nums, l.Label)
	}
	parts = append(parts, strings.Join(nums, " "))
	if p.Next != "" {
		parts = append(parts, "next "+linkStyle.Render(p.Next))
	}
	return strings.Join(parts, "\n") + "\n"
}

// highlight renders <mark> segments with markStyle.
func highlight(s string) string {
	var b strings.Builder
	for _, seg := range page.Segments(s) {
		if seg.Marked {
			b.WriteString(markStyle.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func quoteArg(s string) string {
	if strings.ContainsAny(s, "?&= ") {
		return "'" + s + "'"
	}
	return s
}
