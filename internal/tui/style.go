package tui

import (
	gloss "github.com/charmbracelet/lipgloss"
)

const (
	accent = gloss.Color("#89b4fa")
	muted  = gloss.Color("#585b70")
	text   = gloss.Color("#cdd6f4")
	subtle = gloss.Color("#bac2de")
	danger = gloss.Color("#f38ba8")
)

// View tabs
var (
	ActiveTabStyle = gloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 2)

	InactiveTabStyle = gloss.NewStyle().
				Foreground(muted).
				Padding(0, 2)

	TabsRow = gloss.NewStyle().
		PaddingTop(1).
		PaddingBottom(1)
)

// Book rows
var (
	SelectedTitleStyle = gloss.NewStyle().
				Foreground(accent).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(accent).
				PaddingLeft(1).
				Bold(true)

	SelectedDescStyle = gloss.NewStyle().
				Foreground(subtle).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(accent).
				PaddingLeft(1)

	NormalTitleStyle = gloss.NewStyle().
				Foreground(text).
				PaddingLeft(2)

	NormalDescStyle = gloss.NewStyle().
			Foreground(muted).
			PaddingLeft(2)
)

var (
	ContentStyle = gloss.NewStyle().
			Padding(0, 2)

	StatusStyle = gloss.NewStyle().
			Foreground(accent).
			PaddingLeft(2).
			PaddingTop(1)

	ErrorStyle = gloss.NewStyle().
			Foreground(danger).
			PaddingLeft(2)

	HelpStyle = gloss.NewStyle().
			Foreground(muted).
			PaddingLeft(2).
			PaddingTop(1)

	DetailTitleStyle = gloss.NewStyle().
				Foreground(accent).
				Bold(true)

	DetailLabelStyle = gloss.NewStyle().
				Foreground(muted).
				Width(16)

	PromptStyle = gloss.NewStyle().
			Foreground(accent).
			PaddingLeft(2).
			Bold(true)
)
