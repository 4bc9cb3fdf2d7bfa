package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Materiel-api/internal/domain"
)

var monthAbbr = [...]string{"JANV", "FEV", "MARS", "AVR", "MAI", "JUIN", "JUIL", "AOUT", "SEPT", "OCT", "NOV", "DEC"}

// Period rango [Start, End] en UTC; End es el último instante (ms) de su mes.
type Period struct {
	Start time.Time
	End   time.Time
}

// Month mes del reporte: Key "YYYY-MM" (agregados SQL) y Label "JANV 2025" (columnas).
type Month struct {
	Key   string
	Label string
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthEnd(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()+1, 0, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// MonthLabel etiqueta de columna de un mes: "JANV 2025".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthAbbr[t.Month()-1], t.Year())
}

// Months secuencia inclusiva de meses entre p.Start y p.End.
func Months(p Period) []Month {
	var out []Month
	for cur := monthStart(p.Start); !cur.After(p.End); cur = cur.AddDate(0, 1, 0) {
		out = append(out, Month{Key: cur.Format("2006-01"), Label: MonthLabel(cur)})
	}
	return out
}

// defaultPeriod 13 meses que terminan el mes anterior a now.
func defaultPeriod(now time.Time) Period {
	prev := monthStart(now).AddDate(0, -1, 0)
	return Period{Start: prev.AddDate(0, -12, 0), End: monthEnd(prev)}
}

// AutoPeriod periodo automático: desde el mes del primer préstamo (earliest) hasta el final del mes
// en curso. Sin préstamos: desde 13 meses antes del mes anterior.
func AutoPeriod(earliest *time.Time, now time.Time) Period {
	end := monthEnd(now)
	if earliest != nil {
		return Period{Start: monthStart(*earliest), End: end}
	}
	prev := monthStart(now).AddDate(0, -1, 0)
	return Period{Start: prev.AddDate(0, -12, 0), End: end}
}

func parseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q (format AAAA-MM ou AAAA-MM-JJ attendu)", domain.ErrInvalidInput, s)
}

// ManualPeriod normaliza start/end (AAAA-MM o AAAA-MM-JJ) a límites de mes. Si falta alguno se usa
// la ventana por defecto de 13 meses que termina el mes anterior.
func ManualPeriod(start, end string, now time.Time) (Period, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return defaultPeriod(now), nil
	}
	s, err := parseMonth(start)
	if err != nil {
		return Period{}, err
	}
	e, err := parseMonth(end)
	if err != nil {
		return Period{}, err
	}
	p := Period{Start: monthStart(s), End: monthEnd(e)}
	if p.Start.After(p.End) {
		return Period{}, fmt.Errorf("%w: début postérieur à la fin", domain.ErrInvalidInput)
	}
	return p, nil
}
