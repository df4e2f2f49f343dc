package main

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan = lipgloss.Color("36")
	colorRed  = lipgloss.Color("167")
	colorDim  = lipgloss.Color("240")
)

var (
	styleLabel  = lipgloss.NewStyle().Foreground(colorDim).Width(10)
	styleValue  = lipgloss.NewStyle().Foreground(colorCyan)
	styleError  = lipgloss.NewStyle().Foreground(colorRed)
	styleActive = lipgloss.NewStyle().Bold(true)
)
