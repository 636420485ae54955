package web

import (
	"fmt"
	"html/template"
	"time"

	"github.com/newthinker/realize/internal/realization"
)

var funcs = template.FuncMap{
	"price": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"outcomeClass": func(k realization.OutcomeKind) string {
		switch k {
		case realization.TargetHit:
			return "hit-target"
		case realization.StopLossHit:
			return "hit-stop"
		default:
			return "pending"
		}
	},
	"outcomeIcon": func(k realization.OutcomeKind) string {
		switch k {
		case realization.TargetHit:
			return "✅"
		case realization.StopLossHit:
			return "⚠️"
		default:
			return "❗"
		}
	},
}
