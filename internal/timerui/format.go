package timerui

import (
	"fmt"
	"math"
	"strings"
)

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func formatRate(v float64) string {
	return fmt.Sprintf("%.1fx", v)
}

// formatMinutes formats a duration given in minutes for display
func formatMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	if total >= 60 {
		hours := total / 60
		mins := total % 60
		if mins > 0 {
			return fmt.Sprintf("%dh %dm", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if total == 0 && minutes > 0 {
		return fmt.Sprintf("%.0f sec", minutes*60)
	}
	return fmt.Sprintf("%d min", total)
}

// progressBar renders percent (0..100) as a bar of width cells.
func progressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(percent) || percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// shortSessionID keeps the first block of a UUID for display.
func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
