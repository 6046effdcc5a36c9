package features

import (
	"fmt"

	"BaseballMVP/internal/domain/models"
)

// Situational columns follow the smoothed rates.
const (
	ColInning    = "inning"
	ColOuts      = "outs"
	ColRunnersOn = "runners_on"
	ColOnFirst   = "on_first"
	ColOnSecond  = "on_second"
	ColOnThird   = "on_third"
)

var columns = buildColumns()

func buildColumns() []string {
	cols := make([]string, 0, len(models.Roles)*len(models.Windows)*len(models.Outcomes)+6)
	for _, role := range models.Roles {
		for _, w := range models.Windows {
			for _, o := range models.Outcomes {
				cols = append(cols, RateColumn(role, o, w))
			}
		}
	}
	return append(cols, ColInning, ColOuts, ColRunnersOn, ColOnFirst, ColOnSecond, ColOnThird)
}

// RateColumn names a smoothed-rate column, e.g. batter_hit_rate_7d_smooth.
func RateColumn(role models.Role, o models.Outcome, w models.Window) string {
	return fmt.Sprintf("%s_%s_rate_%s_smooth", role, o, w)
}

// Columns returns the feature vector layout shared with trained artifacts.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Width is the feature vector length.
func Width() int { return len(columns) }

// RateIndex returns the vector position of a smoothed rate.
func RateIndex(role models.Role, o models.Outcome, w models.Window) int {
	ri, wi, oi := 0, 0, 0
	for i, r := range models.Roles {
		if r == role {
			ri = i
		}
	}
	for i, x := range models.Windows {
		if x == w {
			wi = i
		}
	}
	for i, x := range models.Outcomes {
		if x == o {
			oi = i
		}
	}
	return (ri*len(models.Windows)+wi)*len(models.Outcomes) + oi
}

// Index returns the position of a named column or -1.
func Index(name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
