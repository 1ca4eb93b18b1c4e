package notify

import (
	"fmt"
	"strconv"
	"strings"

	"show-sync/feature/monitor"
)

// RenderMessage builds the human-readable notification text for one change.
// The text is rendered once, at detection time, and stored alongside the
// change payload.
func RenderMessage(ch monitor.Change) string {
	className := orUnknownClass(ch.ClassName)
	switch ch.Kind {
	case monitor.ChangeStatus:
		return renderStatusChange(ch, className)
	case monitor.ChangeTime:
		return fmt.Sprintf("⏰ Time Change\n\n📋 %s\n📍 %s\n🕐 %s → %s",
			className, ch.RingName, orDash(ch.Old), orDash(ch.New))
	case monitor.ChangeResult:
		return fmt.Sprintf("🏆 Result!\n\n🐴 %s\n📋 %s\n🥇 Place: #%d\n💰 Prize: $%s",
			orUnknown(ch.HorseName), className, intOrZero(ch.Placing), money(ch.PrizeMoney))
	case monitor.ChangeEntryComplete:
		return fmt.Sprintf("✅ Trip Completed\n\n🐴 %s\n📋 %s\n📊 Faults: %s | Time: %ss",
			orUnknown(ch.HorseName), className, num(ch.Faults), num(ch.TimeOne))
	case monitor.ChangeScratched:
		return fmt.Sprintf("❌ Horse Scratched\n\n🐴 %s\n📋 %s",
			orUnknown(ch.HorseName), className)
	case monitor.ChangeProgress:
		return fmt.Sprintf("📊 Progress Update\n\n📋 %s\n📍 %s\nCompleted: %d/%d",
			className, ch.RingName, intOrZero(ch.Completed), intOrZero(ch.Total))
	default:
		return fmt.Sprintf("%s\n\n📋 %s\n📍 %s", ch.Kind, className, ch.RingName)
	}
}

func renderStatusChange(ch monitor.Change, className string) string {
	if len(ch.Results) > 0 {
		lines := []string{"🏁 Class Completed", "",
			"📋 " + className, "📍 " + ch.RingName, "", "Our Results:"}
		for _, r := range ch.Results {
			if r.Placing != nil && *r.Placing > 0 && *r.Placing < monitor.UnplacedPlacing {
				lines = append(lines, fmt.Sprintf("  %s — Place #%d, $%s",
					orUnknown(r.Horse), *r.Placing, money(r.Prize)))
			} else {
				lines = append(lines, fmt.Sprintf("  %s — No placing", orUnknown(r.Horse)))
			}
		}
		return strings.Join(lines, "\n")
	}
	if len(ch.Horses) > 0 {
		return fmt.Sprintf("🟢 Class Started\n\n📋 %s\n📍 %s\n🐴 Our horses: %s\n#️⃣ Order: %s",
			className, ch.RingName,
			strings.Join(ch.Horses, ", "), strings.Join(ch.Orders, ", "))
	}
	return fmt.Sprintf("Status: %s\n\n📋 %s\n📍 %s", ch.New, className, ch.RingName)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orUnknownClass(s string) string {
	if s == "" {
		return "Unknown Class"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// money renders a prize amount without a trailing ".0" for whole dollars.
func money(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// num renders an optional numeric stat, "—" when the provider sent none.
func num(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
