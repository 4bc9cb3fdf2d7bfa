package inventory

import (
	"fmt"
	"time"
)

// CodeHeader primera línea del código identificador de los lotes.
const CodeHeader = "MATERIEL CHU ANDRAINJATO"

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var frenchWeekdays = [...]string{
	"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
}

// LongFrenchDate formatea una fecha como "lundi 3 mars 2025".
func LongFrenchDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s %d", frenchWeekdays[t.Weekday()], t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// ShortFrenchDate formatea una fecha como JJ/MM/AAAA.
func ShortFrenchDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// LotCode genera el texto identificador de un lote (contenido del QR impreso en la etiqueta).
// Requiere el id ya asignado por la base de datos.
func LotCode(lotID int64, materialName, serial, donorName string, donationDate time.Time) string {
	if donorName == "" {
		donorName = "Inconnu"
	}
	return fmt.Sprintf("%s\nid : %d\n%s  %s\ndonné par %s le %s\n",
		CodeHeader, lotID, materialName, serial, donorName, LongFrenchDate(donationDate))
}

// BatchSerial número de serie del i-ésimo lote (base 1) de una creación en lote: base + 001, 002...
func BatchSerial(base string, i int) string {
	return fmt.Sprintf("%s%03d", base, i)
}
